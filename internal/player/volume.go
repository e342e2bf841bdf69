package player

// clampLevel bounds a volume level to 0.0..1.0. NaN is silent.
func clampLevel(level float64) float64 {
	if level != level {
		return 0
	}
	return min(max(level, 0), 1)
}

// SetVolume sets the volume level (0.0 to 1.0).
// If muted, the level is kept and applies again on unmute.
func (r *Remote) SetVolume(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = clampLevel(level)
}

// Volume returns the current volume level (0.0 to 1.0).
func (r *Remote) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

// SetMuted sets the muted state.
func (r *Remote) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
}

// Muted returns true if audio is muted.
func (r *Remote) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

// EffectiveVolume is the level the page should apply: zero when muted.
func (r *Remote) EffectiveVolume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.muted {
		return 0
	}
	return r.volume
}
