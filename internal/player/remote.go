package player

import (
	"errors"
	"math"
	"sync"

	"github.com/llehouerou/musicsite/internal/eq"
)

// ErrNoSource is returned by Play when no source has been set.
var ErrNoSource = errors.New("no source")

// Status is what a page applies to its audio element.
type Status struct {
	Source   string               `json:"source"`
	State    string               `json:"state"`
	Loop     bool                 `json:"loop"`
	Volume   float64              `json:"volume"`
	Muted    bool                 `json:"muted"`
	Position float64              `json:"position"`
	Duration float64              `json:"duration"`
	Gains    [eq.NumBands]float64 `json:"gains"`
}

// Remote records the desired state of a page's audio element. Pages read
// it through Status and report progress with Report.
type Remote struct {
	mu sync.Mutex

	source   string
	state    State
	loop     bool
	volume   float64
	muted    bool
	position float64
	duration float64
	gains    [eq.NumBands]float64
}

// Verify Remote can drive the equalizer at compile time.
var _ eq.Graph = (*Remote)(nil)

// NewRemote creates a stopped surface at full volume.
func NewRemote() *Remote {
	return &Remote{volume: 1}
}

// SetSource loads a new source and stops playback.
func (r *Remote) SetSource(url string) error {
	if url == "" {
		return ErrNoSource
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = url
	r.state = Stopped
	r.position = 0
	r.duration = 0
	return nil
}

// Play starts or resumes playback.
func (r *Remote) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.source == "" {
		return ErrNoSource
	}
	r.state = Playing
	return nil
}

// Pause pauses playback.
func (r *Remote) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.CanPause() {
		r.state = Paused
	}
}

// Stop stops playback and unloads the source.
func (r *Remote) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = ""
	r.state = Stopped
	r.position = 0
	r.duration = 0
}

// SetLoop makes the element repeat the current source.
func (r *Remote) SetLoop(loop bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loop = loop
}

// Report records the progress a page observed. Non-finite or negative
// values are ignored.
func (r *Remote) Report(position, duration float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if validTime(position) {
		r.position = position
	}
	if validTime(duration) {
		r.duration = duration
	}
}

// State returns the current state.
func (r *Remote) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Position returns the last reported position in seconds.
func (r *Remote) Position() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

// Duration returns the last reported duration in seconds.
func (r *Remote) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

// SetBandGain records the gain of one equalizer band.
func (r *Remote) SetBandGain(band int, db float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if band >= 0 && band < eq.NumBands {
		r.gains[band] = db
	}
}

// Status returns a copy of the desired element state.
func (r *Remote) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, _ := r.state.MarshalText()
	return Status{
		Source:   r.source,
		State:    string(st),
		Loop:     r.loop,
		Volume:   r.volume,
		Muted:    r.muted,
		Position: r.position,
		Duration: r.duration,
		Gains:    r.gains,
	}
}

func validTime(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
