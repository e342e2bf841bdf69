// Package eq models the five-band equalizer and the frequency-bar
// visualizer the page draws.
package eq

// Band is one peaking filter.
type Band struct {
	Frequency float64 `json:"frequency"` // Hz
	Q         float64 `json:"q"`
}

// Bands are the filters in signal order.
var Bands = [...]Band{
	{Frequency: 60, Q: 1},
	{Frequency: 170, Q: 1},
	{Frequency: 350, Q: 1},
	{Frequency: 1000, Q: 1},
	{Frequency: 3500, Q: 1},
}

// NumBands is the number of equalizer bands.
const NumBands = len(Bands)

// Gain limits in dB.
const (
	MinGain = -12.0
	MaxGain = 12.0
)

// Graph is the audio graph the gains are applied to.
type Graph interface {
	SetBandGain(band int, db float64)
}

// Settings holds the gain of every band. The zero value is flat.
type Settings struct {
	Gains [NumBands]float64 `json:"gains"`
}

// SetGain sets one band, clamping db to the gain limits. It returns false
// and changes nothing for an out-of-range band.
func (s *Settings) SetGain(band int, db float64) bool {
	if band < 0 || band >= NumBands {
		return false
	}
	s.Gains[band] = clampGain(db)
	return true
}

// Reset flattens every band.
func (s *Settings) Reset() {
	s.Gains = [NumBands]float64{}
}

// IsFlat reports whether every gain is zero.
func (s Settings) IsFlat() bool {
	return s.Gains == [NumBands]float64{}
}

// Apply pushes every gain to g.
func (s Settings) Apply(g Graph) {
	if g == nil {
		return
	}
	for i, db := range s.Gains {
		g.SetBandGain(i, db)
	}
}

func clampGain(db float64) float64 {
	if db != db { // NaN
		return 0
	}
	return min(max(db, MinGain), MaxGain)
}
