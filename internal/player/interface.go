// internal/player/interface.go
package player

// Interface is the media playback surface: the audio element of the page.
// The server decides what the surface should do; pages mirror it and
// report progress back through Report.
type Interface interface {
	SetSource(url string) error
	Play() error
	Pause()
	Stop()
	SetLoop(loop bool)
	SetVolume(level float64)
	SetMuted(muted bool)
	Report(position, duration float64)
	State() State
	Position() float64
	Duration() float64
}

// Verify Remote implements Interface at compile time.
var _ Interface = (*Remote)(nil)
