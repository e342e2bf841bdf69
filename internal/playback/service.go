package playback

import (
	"context"
	"errors"

	"github.com/llehouerou/musicsite/internal/eq"
	"github.com/llehouerou/musicsite/internal/history"
	"github.com/llehouerou/musicsite/internal/importer"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/player"
	"github.com/llehouerou/musicsite/internal/playlist"
)

// Media is the playback surface driven by the service.
type Media = player.Interface

var (
	// ErrClosed is returned by operations on a closed service.
	ErrClosed = errors.New("playback service closed")
	// ErrNoTrack is returned by Play when nothing is selected.
	ErrNoTrack = errors.New("no track selected")
	// ErrNoBlobs is returned by file imports without an object store.
	ErrNoBlobs = errors.New("no object store configured")
	// ErrStale is returned when a lyrics load was overtaken by a newer one.
	ErrStale = errors.New("lyrics load superseded")
)

// Service defines the playback service contract.
//
// Index-based operations never fail on out-of-range input: they return
// false and change nothing.
type Service interface {
	// Lifecycle
	Load(ctx context.Context) error
	Close() error

	// Import
	AddFiles(ctx context.Context, items []importer.Item) ([]Track, error)
	AddDir(ctx context.Context, dir string) ([]Track, error)
	AddURLs(urls ...string) []Track

	// Playlist manipulation
	Remove(index int) bool
	Move(from, to int) bool
	Clear() error

	// Playback control
	PlayIndex(index int) bool
	Play() error
	Pause()
	Toggle() error
	Next() bool
	Prev() bool
	Ended() bool

	// Playback signals reported by the page
	UpdatePosition(pos float64) (int, bool)
	SetDuration(seconds float64)

	// Mode control
	SetShuffle(enabled bool)
	SetLoop(enabled bool)
	SetVolume(ctx context.Context, level float64) error
	SetMuted(ctx context.Context, muted bool) error

	// Lyrics
	LoadLyricsText(text string) LyricsInfo
	LoadLyricsURL(ctx context.Context, url string) (LyricsInfo, error)
	ClearLyrics()
	ActiveLyric(pos float64) (lyrics.Line, int, bool)
	LyricsFileChanged(rel string) bool

	// History
	History() []history.Entry
	ReplayHistory(url string) bool
	ClearHistory(ctx context.Context) error

	// Equalizer
	EQ() eq.Settings
	SetEQGain(band int, db float64) bool
	ResetEQ()

	// Queries
	View(filter string, policy playlist.SortPolicy) ViewResult
	Snapshot() Snapshot

	// Event subscription
	Subscribe() *Subscription
}
