// Package spectrum turns a stream of PCM samples into per-tick colors for
// the light bar: a sliding FFT window, bass/mid/treble band averaging, EQ
// scaling, gravity smoothing, and an inferno colormap lookup. The FFT
// itself is gonum's, not hand-rolled; see DESIGN.md for the grounding.
package spectrum

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// BufferSize is the number of samples the FFT operates on. Fixed per
// §4.6 step 1.
const BufferSize = 4096

// Pipeline holds the sliding sample buffer, the FFT plan, and one
// gravity filter per band. It is not safe for concurrent use; callers
// serialize Feed/Tick themselves (the music controller owns one
// Pipeline per goroutine).
type Pipeline struct {
	sampleRate int
	buf        []float64
	window     []float64
	fft        *fourier.FFT
	gravity    [NumLights]gravityState
	bands      [NumLights]Band
}

// NewPipeline builds a Pipeline for the given sample rate, using the
// default bass/mid/treble band table.
func NewPipeline(sampleRate int) *Pipeline {
	p := &Pipeline{
		sampleRate: sampleRate,
		buf:        make([]float64, BufferSize),
		window:     hannWindow(BufferSize),
		fft:        fourier.NewFFT(BufferSize),
		bands:      DefaultBands,
	}

	return p
}

// hannWindow builds a size-length Hann window, grounded on the sibling
// pack's spectral analysis code.
func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return w
}

// Feed appends newly-arrived samples to the sliding buffer, keeping the
// BufferSize most recent ones. Per §4.6 step 1 the buffer is newest-first:
// each feed pushes samples onto the front and the tail falls off.
func (p *Pipeline) Feed(samples []float64) {
	if len(samples) >= BufferSize {
		copy(p.buf, samples[len(samples)-BufferSize:])
		reverse(p.buf)

		return
	}

	// Shift existing samples back to make room at the front, then drop
	// whatever falls off the end.
	shifted := make([]float64, BufferSize)
	copy(shifted[len(samples):], p.buf[:BufferSize-len(samples)])

	for i, s := range samples {
		shifted[len(samples)-1-i] = s
	}

	p.buf = shifted
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Tick runs one full pass of the pipeline over the current buffer
// contents -- window, FFT, magnitude, band average, EQ scale, gravity --
// and returns the resulting color per light.
func (p *Pipeline) Tick() [NumLights]Color {
	windowed := make([]float64, BufferSize)
	for i, s := range p.buf {
		windowed[i] = s * p.window[i]
	}

	coeffs := p.fft.Coefficients(nil, windowed)

	half := BufferSize / 2
	if len(coeffs) < half {
		half = len(coeffs)
	}

	magnitudes := make([]float64, half)
	for i := 0; i < half; i++ {
		magnitudes[i] = math.Hypot(real(coeffs[i]), imag(coeffs[i]))
	}

	binHz := float64(p.sampleRate) / float64(BufferSize)

	var out [NumLights]Color

	for i, band := range p.bands {
		avg := bandAverage(magnitudes, binHz, band)
		scaled := avg * band.Scale
		out[i] = ColorFor(p.gravity[i].tick(scaled))
	}

	return out
}
