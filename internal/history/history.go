// Package history keeps the recently played list: newest first, one entry
// per URL, bounded in length and persisted through a state store.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/llehouerou/musicsite/internal/state"
)

// DefaultMax is the number of entries kept.
const DefaultMax = 50

// Entry is one played track. The JSON names match what the page stored in
// localStorage.
type Entry struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Timestamp int64  `json:"t"` // unix milliseconds
}

// Log is the play history. It is not safe for concurrent use.
type Log struct {
	store   state.Interface
	key     string
	max     int
	now     func() time.Time
	entries []Entry
}

// Option configures a Log.
type Option func(*Log)

// WithMax overrides the number of entries kept.
func WithMax(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.max = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates an empty log backed by store. Call Load to read saved
// entries.
func New(store state.Interface, opts ...Option) *Log {
	l := &Log{
		store: store,
		key:   state.KeyHistory,
		max:   DefaultMax,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the saved entries. Corrupt data loads as an empty history;
// only store errors are returned.
func (l *Log) Load(ctx context.Context) error {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		l.entries = nil
		return fmt.Errorf("load history: %w", err)
	}
	l.entries = nil
	if !ok {
		return nil
	}
	var entries []Entry
	if json.Unmarshal([]byte(raw), &entries) != nil {
		return nil
	}
	l.entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.URL == "" })
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	return nil
}

// Push records a play: any older entry for url is dropped and the new one
// goes to the front.
func (l *Log) Push(ctx context.Context, title, url string) error {
	if url == "" {
		return nil
	}
	l.entries = slices.DeleteFunc(l.entries, func(e Entry) bool { return e.URL == url })
	l.entries = slices.Insert(l.entries, 0, Entry{Title: title, URL: url, Timestamp: l.now().UnixMilli()})
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	return l.save(ctx)
}

// Clear drops every entry.
func (l *Log) Clear(ctx context.Context) error {
	l.entries = nil
	return l.save(ctx)
}

// Entries returns a copy of the entries, newest first.
func (l *Log) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Find returns the entry for url.
func (l *Log) Find(url string) (Entry, bool) {
	i := slices.IndexFunc(l.entries, func(e Entry) bool { return e.URL == url })
	if i < 0 {
		return Entry{}, false
	}
	return l.entries[i], true
}

func (l *Log) save(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
