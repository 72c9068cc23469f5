package snapclient

// downmixInt32 averages c channels into a single channel, keeping the
// result as int32 (integer division, matching the wire format's PCM
// sample width) for storage in the delay queue. Channels are stored
// planar, not interleaved: the entire first channel comes first, then
// the entire second, so channel j's frame i lives at samples[i+n*j]
// where n is the per-channel frame count. If c <= 1, samples is
// returned as-is.
func downmixInt32(samples []int32, channels int) []int32 {
	if channels <= 1 {
		return samples
	}

	n := len(samples) / channels
	out := make([]int32, n)

	for i := 0; i < n; i++ {
		var sum int64

		for c := 0; c < channels; c++ {
			sum += int64(samples[i+n*c])
		}

		out[i] = int32(sum / int64(channels))
	}

	return out
}

// Downmix averages c planar channels of samples into a single channel
// of length len(samples)/c. If c <= 1, every sample is converted to
// float64 unchanged in value. See downmixInt32 for the planar layout.
func Downmix(samples []int32, channels int) []float64 {
	if channels <= 1 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = float64(s)
		}

		return out
	}

	n := len(samples) / channels
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		var sum int64

		for c := 0; c < channels; c++ {
			sum += int64(samples[i+n*c])
		}

		out[i] = float64(sum) / float64(channels)
	}

	return out
}
