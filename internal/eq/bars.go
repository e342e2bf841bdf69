package eq

// Bar counts for the main and the mini visualizer.
const (
	MainBars = 64
	MiniBars = 32
	// FFTSize is the analyser size; it yields FFTSize/2 frequency bins.
	FFTSize = 2048
)

// Bars samples count bars from byte frequency data: bar i reads bin
// i*(len/count) and is scaled to 0..1. With fewer bins than bars every
// bar reads the first bin.
func Bars(data []byte, count int) []float64 {
	if count <= 0 || len(data) == 0 {
		return nil
	}
	step := len(data) / count
	bars := make([]float64, count)
	for i := range bars {
		bars[i] = float64(data[i*step]) / 255
	}
	return bars
}
