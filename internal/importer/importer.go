// Package importer decides which files are playable audio and derives
// their display titles.
package importer

import (
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
)

// Audio file extensions accepted regardless of the reported MIME type.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
)

var audioExts = map[string]bool{
	ExtMP3:  true,
	ExtFLAC: true,
	ExtWAV:  true,
	ExtOGG:  true,
}

// IsAudio reports whether a file is importable: an audio MIME type or one
// of the known extensions.
func IsAudio(name, mimeType string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "audio") {
		return true
	}
	return audioExts[strings.ToLower(filepath.Ext(name))]
}

// Item is a file offered for import.
type Item struct {
	Name string
	Size int64
	MIME string
	// Path is the slash-separated location under the media root for
	// directory imports, empty for uploads.
	Path string
	Open func() (io.ReadSeekCloser, error)
}

// Filter keeps the audio items, in order. Others are skipped silently.
func Filter(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if IsAudio(it.Name, it.MIME) {
			out = append(out, it)
		}
	}
	return out
}

// TitleFor returns the title tag of the audio in r, or name when the file
// has no readable title.
func TitleFor(name string, r io.ReadSeeker) string {
	if r == nil {
		return name
	}
	m, err := tag.ReadFrom(r)
	if err != nil {
		return name
	}
	if title := strings.TrimSpace(m.Title()); title != "" {
		return title
	}
	return name
}

// TitleFromURL returns the last path segment of u, or u itself when that
// segment is empty.
func TitleFromURL(u string) string {
	if seg := u[strings.LastIndexByte(u, '/')+1:]; seg != "" {
		return seg
	}
	return u
}

// MIMEFor guesses a MIME type from the file extension.
func MIMEFor(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// SizeLabel formats a byte count for display.
// Uses binary calculation (1024) with SI notation (KB, MB, GB).
func SizeLabel(n int64) string {
	if n < 0 {
		n = 0
	}
	s := humanize.IBytes(uint64(n)) //nolint:gosec // n is non-negative above
	// Convert IEC notation to SI: GiB→GB, MiB→MB, KiB→KB
	return strings.ReplaceAll(s, "iB", "B")
}
