package spectrum

// NumLights is the fixed number of color channels the pipeline produces
// per tick: bass, mid, treble.
const NumLights = 3

// Band is a contiguous, half-open frequency range averaged into one
// scalar, then scaled by a per-band EQ factor before gravity smoothing.
type Band struct {
	Name   string
	LowHz  float64
	HighHz float64
	Scale  float64
}

// DefaultBands are the canonical bass/mid/treble ranges from §4.6 step 6.
// Overlaps between mid and its neighbors are intentional.
var DefaultBands = [NumLights]Band{
	{Name: "bass", LowHz: 1, HighHz: 600, Scale: 1.0 / 5000.0},
	{Name: "mid", LowHz: 500, HighHz: 2500, Scale: 1.0 / 1500.0},
	{Name: "treble", LowHz: 2000, HighHz: 20000, Scale: 1.0 / 200.0},
}

// bandAverage computes the arithmetic mean of magnitudes whose bin
// index falls within [band.LowHz, band.HighHz).
func bandAverage(magnitudes []float64, binHz float64, band Band) float64 {
	var sum float64

	var count int

	for i, mag := range magnitudes {
		freq := float64(i) * binHz
		if freq >= band.LowHz && freq < band.HighHz {
			sum += mag
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}
