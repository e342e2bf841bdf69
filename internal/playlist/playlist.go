// Package playlist keeps the ordered track list and the selection pointer.
package playlist

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// NoSelection is the current index of a playlist with nothing selected.
const NoSelection = -1

// Playlist holds an ordered collection of tracks plus the index of the
// selected one. Insertion order is the canonical "added" order.
//
// A Playlist is not safe for concurrent use; the owner serializes access.
type Playlist struct {
	tracks       []Track
	currentIndex int

	newID    func() string
	pick     func(n int) int
	collator language.Tag
}

// Option configures a Playlist.
type Option func(*Playlist)

// WithIDGenerator replaces the UUID generator used for track IDs.
func WithIDGenerator(fn func() string) Option {
	return func(p *Playlist) { p.newID = fn }
}

// WithPicker replaces the random index picker used by shuffle.
// fn receives n > 0 and must return a value in [0, n).
func WithPicker(fn func(n int) int) Option {
	return func(p *Playlist) { p.pick = fn }
}

// WithCollation sets the language used to compare titles.
func WithCollation(tag language.Tag) Option {
	return func(p *Playlist) { p.collator = tag }
}

// New creates an empty playlist.
func New(opts ...Option) *Playlist {
	p := &Playlist{
		tracks:       make([]Track, 0),
		currentIndex: NoSelection,
		newID:        uuid.NewString,
		pick:         rand.IntN,
		collator:     language.Und,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends tracks in input order and returns them with their assigned IDs.
// The selection is left untouched.
func (p *Playlist) Add(tracks ...Track) []Track {
	added := make([]Track, len(tracks))
	for i, t := range tracks {
		t.ID = p.newID()
		added[i] = t
	}
	p.tracks = append(p.tracks, added...)
	return added
}

// Removal describes the outcome of RemoveAt.
type Removal struct {
	OK      bool  // false when the index was out of range
	Track   Track // the removed track
	Restart bool  // the selected track was removed and another took its place
	Stopped bool  // the selected track was removed and the playlist is empty
	// ReleaseErr is the error returned by the track's handle, if any.
	ReleaseErr error
}

// RemoveAt removes the track at index, releasing its handle when it is a
// local file. Out-of-range indices are a no-op.
func (p *Playlist) RemoveAt(index int) Removal {
	if index < 0 || index >= len(p.tracks) {
		return Removal{}
	}

	removed := p.tracks[index]
	p.tracks = slices.Delete(p.tracks, index, index+1)

	r := Removal{OK: true, Track: removed}
	r.ReleaseErr = release(removed)

	switch {
	case index == p.currentIndex:
		if len(p.tracks) == 0 {
			p.currentIndex = NoSelection
			r.Stopped = true
		} else {
			p.currentIndex = min(index, len(p.tracks)-1)
			r.Restart = true
		}
	case index < p.currentIndex:
		p.currentIndex--
	}

	return r
}

// Move relocates the track at from to position to, shifting the others.
// The selection keeps pointing at the same logical track. Returns false
// when from == to or either index is out of range.
func (p *Playlist) Move(from, to int) bool {
	n := len(p.tracks)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}

	track := p.tracks[from]
	p.tracks = slices.Delete(p.tracks, from, from+1)
	p.tracks = slices.Insert(p.tracks, to, track)

	cur := p.currentIndex
	switch {
	case from == cur:
		p.currentIndex = to
	case from < cur && cur <= to:
		p.currentIndex--
	case to <= cur && cur < from:
		p.currentIndex++
	}
	return true
}

// Clear removes every track, releasing local handles, and drops the selection.
func (p *Playlist) Clear() error {
	var errs []error
	for _, t := range p.tracks {
		if err := release(t); err != nil {
			errs = append(errs, err)
		}
	}
	clear(p.tracks)
	p.tracks = p.tracks[:0]
	p.currentIndex = NoSelection
	return errors.Join(errs...)
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at index.
func (p *Playlist) Track(index int) (Track, bool) {
	if index < 0 || index >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[index], true
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// FindByURL returns the index of the first track streaming from url, or -1.
func (p *Playlist) FindByURL(url string) int {
	return slices.IndexFunc(p.tracks, func(t Track) bool {
		return t.SourceURL == url
	})
}

func release(t Track) error {
	if !t.IsLocal() || t.Handle == nil {
		return nil
	}
	return t.Handle.Release()
}
