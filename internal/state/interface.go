// internal/state/interface.go
package state

import "context"

// Interface is the string key-value store behind the saved preferences and
// the play history. Keys match the browser's localStorage keys so exported
// page data can be imported as is.
type Interface interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys used by the player.
const (
	KeyTheme   = "music-theme"
	KeyHistory = "music-history-v1"
	KeyVolume  = "music-volume"
)

// KnownKeys lists every key the player reads or writes.
var KnownKeys = []string{KeyTheme, KeyHistory, KeyVolume}

// Verify implementations satisfy Interface at compile time.
var (
	_ Interface = (*Manager)(nil)
	_ Interface = (*RedisStore)(nil)
	_ Interface = (*Mock)(nil)
)
