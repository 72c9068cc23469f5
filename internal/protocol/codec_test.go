package protocol

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kgraymoore/snaplight/internal/snaperr"
)

func fixedClock(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

// genMessage draws a random, well-formed message for round-trip testing.
// Durations are whole microseconds, the resolution the wire carries.
func genMessage(t *rapid.T) (Kind, any) {
	t.Helper()

	switch rapid.IntRange(1, 6).Draw(t, "kind") {
	case 1:
		return KindCodecHeader, CodecHeaderBody{
			Codec:   rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "codec"),
			Payload: rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "payload"),
		}
	case 2:
		return KindWireChunk, WireChunkBody{
			Timestamp: time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(t, "ts")) * time.Microsecond,
			Payload:   rapid.SliceOfN(rapid.Byte(), 0, 256).Draw(t, "payload"),
		}
	case 3:
		return KindServerSettings, ServerSettingsBody{
			BufferMs: rapid.IntRange(0, 10000).Draw(t, "bufferMs"),
			Latency:  rapid.IntRange(0, 10000).Draw(t, "latency"),
			Muted:    rapid.Bool().Draw(t, "muted"),
			Volume:   rapid.IntRange(0, 100).Draw(t, "volume"),
		}
	case 4:
		return KindTime, TimeBody{Delta: time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(t, "delta")) * time.Microsecond}
	case 5:
		return KindHello, HelloBody{
			Arch:                      "x86_64",
			ClientName:                rapid.StringMatching(`[a-zA-Z0-9 ]{1,16}`).Draw(t, "name"),
			HostName:                  "host",
			ID:                        "aa:bb:cc:dd:ee:ff",
			Instance:                  1,
			MAC:                       "aa:bb:cc:dd:ee:ff",
			OS:                        "linux",
			SnapStreamProtocolVersion: 2,
			Version:                   "1.0.0",
		}
	default:
		n := rapid.IntRange(0, 5).Draw(t, "ntags")
		tags := make(map[string]string, n)

		for range n {
			tags[rapid.StringMatching(`[a-z]{3,8}`).Draw(t, "key")] = rapid.String().Draw(t, "val")
		}

		return KindStreamTags, StreamTagsBody{Tags: tags}
	}
}

// Property 1: decode(encode(m)) == m modulo Received, which decode always
// overwrites with the stream's own clock.
func TestFramingRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind, body := genMessage(t)
		sent := time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(t, "sent")) * time.Microsecond
		id := uint16(rapid.IntRange(0, 65535).Draw(t, "id"))
		refersTo := uint16(rapid.IntRange(0, 65535).Draw(t, "refersTo"))

		wire, err := Encode(kind, id, refersTo, sent, body)
		require.NoError(t, err)

		recvStamp := 42 * time.Second
		dec := NewDecoder(fixedClock(recvStamp))
		dec.Feed(wire)

		msg, ok, err := dec.Decode()
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, kind, msg.Type)
		assert.Equal(t, id, msg.ID)
		assert.Equal(t, refersTo, msg.RefersTo)
		assert.Equal(t, sent, msg.Sent)
		assert.Equal(t, recvStamp, msg.Received)
		assert.Equal(t, body, msg.Body)
	})
}

// Property 2: any strict prefix of an encoded message yields "need more"
// and consumes no bytes.
func TestFramingResynchronization(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind, body := genMessage(t)
		wire, err := Encode(kind, 0, 0, 0, body)
		require.NoError(t, err)

		cut := rapid.IntRange(0, len(wire)-1).Draw(t, "cut")
		prefix := wire[:cut]

		dec := NewDecoder(fixedClock(0))
		dec.Feed(prefix)

		msg, ok, err := dec.Decode()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, msg)
		assert.Equal(t, len(prefix), len(dec.buf), "decode must not consume bytes when more are needed")
	})
}

// S1: a malformed Hello body (valid length-prefixed string, invalid JSON)
// is rejected with ErrMalformed after consuming exactly envelope+body.
func TestEnvelopeParse_MalformedHello(t *testing.T) {
	envelope := make([]byte, EnvelopeSize)
	binary.LittleEndian.PutUint16(envelope[0:2], uint16(KindHello))
	binary.LittleEndian.PutUint16(envelope[2:4], 7)
	binary.LittleEndian.PutUint32(envelope[22:26], 16)

	body := append([]byte{0x0C, 0x00, 0x00, 0x00}, []byte("helloworld!!")...)

	wire := append(envelope, body...)

	dec := NewDecoder(fixedClock(0))
	dec.Feed(wire)

	msg, ok, err := dec.Decode()
	require.Error(t, err)
	assert.True(t, ok, "envelope+body were fully buffered, so this is a parse failure, not need-more")
	assert.Nil(t, msg)
	assert.True(t, errors.Is(err, snaperr.ErrMalformed))
	assert.Empty(t, dec.buf, "26+16 bytes must be fully consumed")
}

func TestDecodeUnknownTag(t *testing.T) {
	envelope := make([]byte, EnvelopeSize)
	binary.LittleEndian.PutUint16(envelope[0:2], 99)

	dec := NewDecoder(fixedClock(0))
	dec.Feed(envelope)

	_, ok, err := dec.Decode()
	require.Error(t, err)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, snaperr.ErrUnknownTag))
}
