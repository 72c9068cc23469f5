package snapclient

import (
	"fmt"

	"github.com/kgraymoore/snaplight/internal/snaperr"
)

// supportedCodec is the only codec this client understands.
const supportedCodec = "flac"

// CodecState holds the most recent CodecHeader announcement. It is
// absent (zero value, Ready() false) until one has been received.
type CodecState struct {
	codec      string
	header     []byte
	sampleRate int
	ready      bool
}

// Ready reports whether a CodecHeader has been received yet.
func (c *CodecState) Ready() bool {
	return c.ready
}

// SampleRate returns the stream's sample rate, derived from the FLAC
// header when available, else the protocol default.
func (c *CodecState) SampleRate() int {
	if c.sampleRate > 0 {
		return c.sampleRate
	}

	return defaultSampleRate
}

// defaultSampleRate is used when the FLAC header's sample rate cannot
// be parsed out -- spec's Open Question on SAMPLE_RATE derivation,
// resolved by preferring the stream's own header when present.
const defaultSampleRate = 44100

// Accept validates and stores a CodecHeader announcement. An
// unsupported codec name is fatal for the session per the spec's error
// taxonomy (CodecError, CodecHeader mismatch).
func (c *CodecState) Accept(codec string, header []byte) error {
	if codec != supportedCodec {
		return fmt.Errorf("%w: unsupported codec %q", snaperr.ErrUnsupportedCodec, codec)
	}

	c.codec = codec
	c.header = header
	c.sampleRate = sampleRateFromFLACHeader(header)
	c.ready = true

	return nil
}

// sampleRateFromFLACHeader extracts the sample rate from a FLAC
// STREAMINFO block if the header looks like one (the 4-byte "fLaC"
// marker followed by a STREAMINFO metadata block); the sample rate is
// a 20-bit field packed into bytes 10-11 and the top nibble of byte 12
// of the STREAMINFO payload (bytes 18-20 of the whole header). Returns 0
// if the header doesn't parse.
func sampleRateFromFLACHeader(header []byte) int {
	const (
		markerLen       = 4
		blockHeaderLen  = 4
		streamInfoStart = markerLen + blockHeaderLen
		minLen          = streamInfoStart + 21
	)

	if len(header) < minLen {
		return 0
	}

	if string(header[:markerLen]) != "fLaC" {
		return 0
	}

	b := header[streamInfoStart+10 : streamInfoStart+13]

	rate := int(b[0])<<12 | int(b[1])<<4 | int(b[2])>>4

	return rate
}
