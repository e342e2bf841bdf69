// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Import operations
	OpImportFile Op = "import file"
	OpImportDir  Op = "import directory"

	// Playlist operations
	OpPlaylistRemove Op = "remove track"
	OpPlaylistClear  Op = "clear playlist"

	// Lyrics operations
	OpLyricsFetch    Op = "fetch lyrics"
	OpLyricsDiscover Op = "find lyrics"

	// Playback operations
	OpPlaybackStart Op = "start playback"

	// Preferences
	OpHistorySave Op = "save history"
	OpHistoryLoad Op = "load history"
	OpThemeSave   Op = "save theme"
	OpVolumeSave  Op = "save volume"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
