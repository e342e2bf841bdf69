package importer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestIsAudio(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want bool
	}{
		{"song.mp3", "", true},
		{"SONG.FLAC", "", true},
		{"take.Wav", "application/octet-stream", true},
		{"a.ogg", "", true},
		{"voice.m4a", "audio/mp4", true},
		{"noext", "audio/mpeg", true},
		{"noext", "Audio/X-Custom", true},
		{"cover.jpg", "image/jpeg", false},
		{"notes.txt", "", false},
		{"mp3", "", false},
		{"song.mp3.txt", "text/plain", false},
	}

	for _, tt := range tests {
		if got := IsAudio(tt.name, tt.mime); got != tt.want {
			t.Errorf("IsAudio(%q, %q) = %v, want %v", tt.name, tt.mime, got, tt.want)
		}
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	items := []Item{
		{Name: "b.mp3"},
		{Name: "readme.md"},
		{Name: "a.flac"},
		{Name: "clip", MIME: "audio/ogg"},
	}

	var names []string
	for _, it := range Filter(items) {
		names = append(names, it.Name)
	}

	if !slices.Equal(names, []string{"b.mp3", "a.flac", "clip"}) {
		t.Errorf("Filter names = %v", names)
	}
}

// id3Title builds a minimal ID3v2.3 tag holding a TIT2 frame.
func id3Title(title string) []byte {
	data := append([]byte{0x00}, title...)
	frame := append([]byte("TIT2"), 0, 0, 0, byte(len(data)), 0, 0)
	frame = append(frame, data...)
	hdr := []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, byte(len(frame))}
	return append(hdr, frame...)
}

func TestTitleFor(t *testing.T) {
	tagged := bytes.NewReader(id3Title("Real Title"))
	if got := TitleFor("01 track.mp3", tagged); got != "Real Title" {
		t.Errorf("TitleFor(tagged) = %q, want Real Title", got)
	}

	untagged := bytes.NewReader([]byte("not an audio file at all"))
	if got := TitleFor("01 track.mp3", untagged); got != "01 track.mp3" {
		t.Errorf("TitleFor(untagged) = %q, want file name", got)
	}

	if got := TitleFor("x.wav", nil); got != "x.wav" {
		t.Errorf("TitleFor(nil) = %q", got)
	}

	var r io.ReadSeeker = bytes.NewReader(id3Title(""))
	if got := TitleFor("blank.mp3", r); got != "blank.mp3" {
		t.Errorf("TitleFor(empty title) = %q", got)
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := map[string]string{
		"https://cdn.test/music/song.mp3":     "song.mp3",
		"https://cdn.test/music/song.mp3?x=1": "song.mp3?x=1",
		"https://cdn.test/music/":             "https://cdn.test/music/",
		"song.mp3":                            "song.mp3",
	}
	for in, want := range tests {
		if got := TitleFromURL(in); got != want {
			t.Errorf("TitleFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := SizeLabel(tt.n); got != tt.want {
			t.Errorf("SizeLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	album := filepath.Join(root, "albums", "first")
	mustMkdir(t, filepath.Join(album, "nested"))
	mustWrite(t, filepath.Join(album, "b.mp3"), "bbbb")
	mustWrite(t, filepath.Join(album, "a.FLAC"), "aa")
	mustWrite(t, filepath.Join(album, "cover.jpg"), "img")
	mustWrite(t, filepath.Join(album, "nested", "deep.mp3"), "d")

	items, err := ScanDir(root, "/albums/first/")
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Name != "a.FLAC" || items[0].Path != "albums/first/a.FLAC" || items[0].Size != 2 {
		t.Errorf("items[0] = %+v", items[0])
	}

	f, err := items[1].Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "bbbb" {
		t.Errorf("content = %q", data)
	}
}

func TestScanDir_StaysInRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "media")
	mustMkdir(t, root)
	mustWrite(t, filepath.Join(parent, "outside.mp3"), "x")

	items, err := ScanDir(root, "../")
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("escaped the root: %+v", items)
	}

	if _, err := ScanDir(root, "missing"); err == nil {
		t.Error("missing directory should fail")
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
