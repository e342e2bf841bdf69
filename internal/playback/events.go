package playback

import "github.com/llehouerou/musicsite/internal/errmsg"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback starts on a track.
//
// Emitted by PlayIndex, Next, Prev, Ended (when advancing), ReplayHistory
// and Remove when the selected track is replaced. Not emitted when a
// Move only shifts the selected index.
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the playlist contents or order change.
type QueueChange struct {
	Tracks []Track
	Index  int
}

// ModeChange is emitted when loop or shuffle mode changes.
type ModeChange struct {
	Shuffle bool
	Loop    bool
}

// LyricsChange is emitted when the timeline is replaced or cleared.
type LyricsChange struct {
	Source string // lyrics.From* for discovered timelines, "manual" otherwise
	Lines  int
}

// PositionChange is emitted when a position update moves the active
// lyric line. Line is -1 when no line is active.
type PositionChange struct {
	Position float64
	Line     int
}

// Notice is a transient user-facing message about a failed operation.
// Playback continues regardless.
type Notice struct {
	Op      errmsg.Op
	Message string
}
