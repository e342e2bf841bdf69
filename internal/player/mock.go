// internal/player/mock.go
package player

// Mock is a test double for Interface.
type Mock struct {
	state     State
	source    string
	loop      bool
	volume    float64
	muted     bool
	position  float64
	duration  float64
	playErr   error
	sources   []string
	playCalls int
	stopCalls int
}

// NewMock creates a new mock surface for testing.
func NewMock() *Mock {
	return &Mock{state: Stopped, volume: 1}
}

func (m *Mock) SetSource(url string) error {
	if url == "" {
		return ErrNoSource
	}
	m.sources = append(m.sources, url)
	m.source = url
	m.state = Stopped
	m.position, m.duration = 0, 0
	return nil
}

func (m *Mock) Play() error {
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.source == "" {
		return ErrNoSource
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.state = Stopped
	m.source = ""
}

func (m *Mock) SetLoop(loop bool) { m.loop = loop }

func (m *Mock) SetVolume(level float64) { m.volume = clampLevel(level) }

func (m *Mock) SetMuted(muted bool) { m.muted = muted }

func (m *Mock) Report(position, duration float64) {
	if validTime(position) {
		m.position = position
	}
	if validTime(duration) {
		m.duration = duration
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) Position() float64 { return m.position }

func (m *Mock) Duration() float64 { return m.duration }

// Test helpers

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) Source() string { return m.source }

func (m *Mock) Sources() []string { return m.sources }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

func (m *Mock) Loop() bool { return m.loop }

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) Muted() bool { return m.muted }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
