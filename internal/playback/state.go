// internal/playback/state.go
package playback

import "fmt"

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// MarshalText encodes the state in lower case for JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case StatePlaying:
		return []byte("playing"), nil
	case StatePaused:
		return []byte("paused"), nil
	default:
		return []byte("stopped"), nil
	}
}

// UnmarshalText decodes a state written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stopped":
		*s = StateStopped
	case "playing":
		*s = StatePlaying
	case "paused":
		*s = StatePaused
	default:
		return fmt.Errorf("unknown playback state %q", text)
	}
	return nil
}
