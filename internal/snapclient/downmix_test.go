package snapclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDownmix_SingleChannelIsIdentity(t *testing.T) {
	in := []int32{1, 2, 3, 4}
	out := Downmix(in, 1)

	require.Len(t, out, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, out)
}

// TestDownmixInt32_PlanarLayout checks Property 7 against the wire
// layout directly: channels are planar (the entire left channel, then
// the entire right channel), not interleaved, so downmixInt32 must
// average samples[i] with samples[i+n], not adjacent pairs.
func TestDownmixInt32_PlanarLayout(t *testing.T) {
	left := []int32{10, 20, 30}
	right := []int32{4, 6, 9}

	samples := make([]int32, 0, len(left)+len(right))
	samples = append(samples, left...)
	samples = append(samples, right...)

	out := downmixInt32(samples, 2)

	require.Len(t, out, len(left))

	for i := range left {
		want := int32((int64(left[i]) + int64(right[i])) / 2)
		assert.Equal(t, want, out[i], "frame %d", i)
	}
}

// TestDownmix_Linearity checks Property 7: downmixing is linear in the
// input samples -- scaling every input sample by k scales every output
// sample by the same k.
func TestDownmix_Linearity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		channels := rapid.IntRange(1, 6).Draw(rt, "channels")
		frames := rapid.IntRange(1, 50).Draw(rt, "frames")

		samples := rapid.SliceOfN(rapid.Int32Range(-1000, 1000), frames*channels, frames*channels).Draw(rt, "samples")

		k := rapid.Int32Range(1, 8).Draw(rt, "k")

		scaled := make([]int32, len(samples))
		for i, s := range samples {
			scaled[i] = s * k
		}

		base := Downmix(samples, channels)
		got := Downmix(scaled, channels)

		require.Len(t, got, len(base))

		for i := range base {
			assert.InDeltaf(rt, base[i]*float64(k), got[i], 1e-6, "index %d", i)
		}
	})
}
