// internal/playlist/queue_test.go
//
//nolint:goconst // test file with repeated string literals
package playlist

import "testing"

func TestPlaylist_Select(t *testing.T) {
	p := newABC(t)

	if !p.Select(2) {
		t.Fatal("Select(2) should succeed")
	}
	cur, ok := p.Current()
	if !ok || cur.Title != "C" {
		t.Errorf("Current() = %+v, want C", cur)
	}
}

func TestPlaylist_Select_Invalid(t *testing.T) {
	p := newABC(t)
	p.Select(1)

	if p.Select(5) || p.Select(-1) {
		t.Error("Select with invalid index should fail")
	}
	if p.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1 (unchanged)", p.CurrentIndex())
	}
}

func TestPlaylist_Advance(t *testing.T) {
	tests := []struct {
		name    string
		current int
		dir     Direction
		want    int
	}{
		{"forward", 0, Forward, 1},
		{"forward wraps", 2, Forward, 0},
		{"backward", 2, Backward, 1},
		{"backward wraps", 0, Backward, 2},
		{"forward from nothing", NoSelection, Forward, 0},
		{"backward from nothing", NoSelection, Backward, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newABC(t)
			if tt.current != NoSelection {
				p.Select(tt.current)
			}

			got, ok := p.Advance(tt.dir, false)

			if !ok {
				t.Fatal("Advance should succeed")
			}
			if got != tt.want || p.CurrentIndex() != tt.want {
				t.Errorf("Advance() = %d (CurrentIndex %d), want %d", got, p.CurrentIndex(), tt.want)
			}
		})
	}
}

func TestPlaylist_Advance_Empty(t *testing.T) {
	p := New()

	if idx, ok := p.Advance(Forward, false); ok || idx != NoSelection {
		t.Errorf("Advance on empty = (%d, %v), want (NoSelection, false)", idx, ok)
	}
	if _, ok := p.Advance(Backward, true); ok {
		t.Error("shuffle Advance on empty should fail")
	}
}

func TestPlaylist_Advance_Shuffle(t *testing.T) {
	var gotN []int
	picks := []int{2, 2, 0}
	p := New(WithPicker(func(n int) int {
		gotN = append(gotN, n)
		v := picks[0]
		picks = picks[1:]
		return v
	}))
	p.Add(Track{Title: "A"}, Track{Title: "B"}, Track{Title: "C"})
	p.Select(2)

	// Shuffle ignores direction and may land on the current track.
	for _, dir := range []Direction{Forward, Backward, Forward} {
		p.Advance(dir, true)
	}

	if p.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", p.CurrentIndex())
	}
	for _, n := range gotN {
		if n != 3 {
			t.Errorf("picker called with n = %d, want 3", n)
		}
	}
}

func TestPlaylist_Advance_ShuffleDefaultPickerInRange(t *testing.T) {
	p := newABC(t)
	seen := map[int]bool{}

	for range 300 {
		idx, _ := p.Advance(Forward, true)
		if idx < 0 || idx >= 3 {
			t.Fatalf("shuffle picked %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 3 {
		t.Errorf("shuffle covered %d of 3 tracks", len(seen))
	}
}

func TestPlaylist_Prepend(t *testing.T) {
	p := newABC(t)
	p.Select(1)

	front := p.Prepend(Track{Title: "Z", SourceURL: "http://x/z.mp3"})

	if front.ID == "" {
		t.Error("Prepend should assign an ID")
	}
	if got := titles(p); got[0] != "Z" || len(got) != 4 {
		t.Errorf("titles = %v, want Z first", got)
	}
	cur, _ := p.Current()
	if cur.Title != "B" {
		t.Errorf("Current() = %q, want B (same logical track)", cur.Title)
	}
}

func TestPlaylist_Prepend_NoSelection(t *testing.T) {
	p := New()

	p.Prepend(Track{Title: "Z"})

	if p.CurrentIndex() != NoSelection {
		t.Errorf("CurrentIndex() = %d, want NoSelection", p.CurrentIndex())
	}
}

func TestOrigin_String(t *testing.T) {
	if OriginFile.String() != "file" || OriginURL.String() != "url" {
		t.Errorf("String() = %q, %q", OriginFile, OriginURL)
	}
	if Origin(9).String() != "unknown" {
		t.Errorf("Origin(9).String() = %q", Origin(9))
	}
}
