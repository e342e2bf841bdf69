package playlist

// Direction is the way Advance walks the playlist.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// CurrentIndex returns the selected index, or NoSelection.
func (p *Playlist) CurrentIndex() int {
	return p.currentIndex
}

// Current returns the selected track.
func (p *Playlist) Current() (Track, bool) {
	return p.Track(p.currentIndex)
}

// Select sets the selected index. Out-of-range indices leave the
// selection untouched and return false.
func (p *Playlist) Select(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}
	p.currentIndex = index
	return true
}

// Advance moves the selection and returns the new index.
//
// With shuffle the next index is drawn uniformly from the whole playlist,
// regardless of direction and position. Otherwise the selection wraps
// around in the given direction; from NoSelection, Forward lands on the
// first track and Backward on the last. Returns false on an empty playlist.
func (p *Playlist) Advance(dir Direction, shuffle bool) (int, bool) {
	n := len(p.tracks)
	if n == 0 {
		return NoSelection, false
	}

	var next int
	switch {
	case shuffle:
		next = p.pick(n)
	case dir == Backward:
		if p.currentIndex == NoSelection {
			next = n - 1
		} else {
			next = (p.currentIndex - 1 + n) % n
		}
	default:
		next = (p.currentIndex + 1) % n
	}

	p.currentIndex = next
	return next, true
}

// Prepend inserts a track at the front and returns it with its ID.
// The selection shifts so it keeps pointing at the same logical track.
func (p *Playlist) Prepend(t Track) Track {
	t.ID = p.newID()
	p.tracks = append([]Track{t}, p.tracks...)
	if p.currentIndex != NoSelection {
		p.currentIndex++
	}
	return t
}
