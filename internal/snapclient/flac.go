package snapclient

import "encoding/binary"

// decodedBlock is one decoded audio block: planar samples (one whole
// channel after another) plus the channel count needed to downmix them.
type decodedBlock struct {
	samples  []int32
	channels int
}

// decodeFLACBlock turns a WireChunk payload into planar PCM samples, in
// the layout downmixInt32 reads. Full FLAC bitstream decoding is an external collaborator by
// design (out of this client's scope per its purpose statement); this
// reads the CodecHeader-negotiated stream as raw little-endian signed
// 32-bit PCM, which is what the FLAC decoder boundary is expected to
// hand the core once it has done its own block decoding.
func decodeFLACBlock(payload []byte) (decodedBlock, error) {
	const bytesPerSample = 4

	n := len(payload) / bytesPerSample

	samples := make([]int32, n)
	for i := range samples {
		samples[i] = int32(binary.LittleEndian.Uint32(payload[i*bytesPerSample:]))
	}

	return decodedBlock{samples: samples, channels: flacChannels}, nil
}

// flacChannels is the channel count assumed for the decoded PCM;
// stereo is what Snapcast servers stream by default.
const flacChannels = 2
