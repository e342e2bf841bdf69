package state

import (
	"context"
	"encoding/json"
)

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// GetVolume returns the saved volume state, full volume when unset or
// unreadable.
func GetVolume(ctx context.Context, s Interface) (VolumeState, error) {
	def := VolumeState{Volume: 1.0}
	raw, ok, err := s.Get(ctx, KeyVolume)
	if err != nil || !ok {
		return def, err
	}
	var v VolumeState
	if json.Unmarshal([]byte(raw), &v) != nil {
		return def, nil
	}
	v.Volume = clampVolume(v.Volume)
	return v, nil
}

// SaveVolume persists the volume level.
func SaveVolume(ctx context.Context, s Interface, v VolumeState) error {
	v.Volume = clampVolume(v.Volume)
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyVolume, string(data))
}

func clampVolume(v float64) float64 {
	if v != v { // NaN
		return 1
	}
	return min(max(v, 0), 1)
}
