package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// toneAmplitude puts test tones on the 16-bit PCM scale that the
// per-band EQ factors are sized for; a unit-amplitude tone scales to well
// under one intensity step and every band rounds to zero.
const toneAmplitude = 10000

// toneSamples generates samples of a pure sine tone at freqHz with peak
// toneAmplitude, sampled at sampleRate, starting from phase offset i0.
func toneSamples(freqHz float64, sampleRate, n, i0 int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i0+i) / float64(sampleRate)
		out[i] = toneAmplitude * math.Sin(2*math.Pi*freqHz*t)
	}

	return out
}

// TestPipeline_ToneFavorsMidBand covers scenario S6 with a 1000Hz tone:
// 440Hz lies below the mid band's 500Hz floor, in the bass band only,
// while 1000Hz lies in the mid band alone. After eight ticks, enough for
// gravity to climb, the mid band reads strictly higher than bass and
// treble.
func TestPipeline_ToneFavorsMidBand(t *testing.T) {
	const sampleRate = 44100

	p := NewPipeline(sampleRate)

	var last [NumLights]Color

	for tick := 0; tick < 8; tick++ {
		p.Feed(toneSamples(1000, sampleRate, BufferSize, tick*BufferSize))
		last = p.Tick()
	}

	bass := last[0].I
	mid := last[1].I
	treble := last[2].I

	assert.Greater(t, mid, bass)
	assert.Greater(t, mid, treble)
}

// TestPipeline_SilenceDecaysToBlack feeds zero samples for several
// ticks and expects every band to settle at zero intensity.
func TestPipeline_SilenceDecaysToBlack(t *testing.T) {
	const sampleRate = 44100

	p := NewPipeline(sampleRate)

	silence := make([]float64, BufferSize)

	var last [NumLights]Color

	for tick := 0; tick < 20; tick++ {
		p.Feed(silence)
		last = p.Tick()
	}

	for i, c := range last {
		assert.Equalf(t, byte(0), c.I, "band %d did not settle to zero", i)
	}
}
