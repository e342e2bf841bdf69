package lyrics

import (
	"sync"
	"testing"
)

func TestLoader_LastStartedWins(t *testing.T) {
	var l Loader
	first := l.Begin()
	second := l.Begin()

	if !l.Commit(second, Parse("[00:01]second")) {
		t.Fatal("latest generation should commit")
	}
	if l.Commit(first, Parse("[00:01]first")) {
		t.Error("stale generation must not commit")
	}
	if got := l.Timeline().Lines[0].Text; got != "second" {
		t.Errorf("Timeline text = %q, want second", got)
	}
}

func TestLoader_InvalidateDropsInFlight(t *testing.T) {
	var l Loader
	gen := l.Begin()
	l.Commit(gen, Parse("[00:01]old track"))

	pending := l.Begin()
	l.Invalidate()

	if l.IsCurrent(pending) {
		t.Error("pending load should be stale after Invalidate")
	}
	if l.Commit(pending, Parse("[00:01]late")) {
		t.Error("stale load committed after Invalidate")
	}
	if !l.Timeline().IsEmpty() {
		t.Error("Invalidate should clear the timeline")
	}
}

func TestLoader_ConcurrentCommits(t *testing.T) {
	var l Loader
	gens := make([]uint64, 20)
	for i := range gens {
		gens[i] = l.Begin()
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	committed := 0
	for _, g := range gens {
		wg.Add(1)
		go func(g uint64) {
			defer wg.Done()
			if l.Commit(g, Timeline{Lines: []Line{{Time: float64(g)}}}) {
				mu.Lock()
				committed++
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()

	if committed != 1 {
		t.Errorf("committed = %d, want exactly 1", committed)
	}
	if got := l.Timeline().Lines[0].Time; got != float64(gens[len(gens)-1]) {
		t.Errorf("committed time = %v, want latest generation", got)
	}
}
