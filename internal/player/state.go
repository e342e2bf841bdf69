// internal/player/state.go
package player

// State represents the playback state machine.
//
// The state machine has three states with the following valid transitions:
//
//	┌──────────┐      play       ┌──────────┐
//	│  Stopped │ ───────────────▶│  Playing │
//	└──────────┘                 └──────────┘
//	     ▲                            │ │
//	     │ stop                 pause │ │ stop
//	     │                            ▼ │
//	     │                       ┌──────────┐
//	     └───────────────────────│  Paused  │
//	                  stop       └──────────┘
//	                                  │
//	                             play │
//	                                  │
//	                                  ▼
//	                             Playing
//
// Play from Stopped requires a source. Pause is a no-op unless Playing.
// SetSource stops the surface until Play is called again.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// MarshalText encodes the state in lower case for JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Playing:
		return []byte("playing"), nil
	case Paused:
		return []byte("paused"), nil
	default:
		return []byte("stopped"), nil
	}
}
