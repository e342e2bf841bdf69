package lyrics

import "sync"

// Loader holds the active timeline and tags every load with a generation.
// A load commits only while its generation is the latest one started, so
// the last load started wins and a track switch discards loads in flight.
type Loader struct {
	mu  sync.Mutex
	gen uint64
	tl  Timeline
}

// Begin starts a new load and returns its generation.
func (l *Loader) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

// Invalidate drops any load in flight and clears the timeline.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.tl = Timeline{}
}

// Commit replaces the timeline if gen is still the latest generation.
func (l *Loader) Commit(gen uint64, tl Timeline) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.tl = tl
	return true
}

// IsCurrent reports whether gen is the latest generation.
func (l *Loader) IsCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Timeline returns the committed timeline.
func (l *Loader) Timeline() Timeline {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tl
}
