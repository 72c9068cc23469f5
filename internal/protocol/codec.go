package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kgraymoore/snaplight/internal/snaperr"
)

// Decoder buffers inbound bytes and decodes them into Messages. It is
// bound to a clock function so that the Received field of every decoded
// message reflects this side's own elapsed time, not whatever was on the
// wire (the sender only ever writes a placeholder there).
type Decoder struct {
	buf []byte
	now func() time.Duration
}

// NewDecoder creates a Decoder whose Received timestamps are stamped by
// calling now, typically a Stream's T0.Elapsed.
func NewDecoder(now func() time.Duration) *Decoder {
	return &Decoder{now: now}
}

// Feed appends newly-read bytes to the decode buffer.
func (d *Decoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// Decode attempts to parse one message from the buffered bytes. ok is
// false (with a nil error) when more bytes are needed; the buffer is
// left untouched in that case, per the framing-resynchronization
// property. A non-nil error means the envelope or body were malformed
// and is unrecoverable for this stream.
func (d *Decoder) Decode() (msg *Message, ok bool, err error) {
	if len(d.buf) < EnvelopeSize {
		return nil, false, nil
	}

	header, bodyLen := decodeHeader(d.buf)

	total := EnvelopeSize + int(bodyLen)
	if len(d.buf) < total {
		return nil, false, nil
	}

	body := d.buf[EnvelopeSize:total]
	d.buf = d.buf[total:]

	header.Received = d.now()

	parsed, parseErr := decodeBody(header.Type, body)
	if parseErr != nil {
		return nil, true, parseErr
	}

	return &Message{Header: header, Body: parsed}, true, nil
}

func decodeBody(kind Kind, body []byte) (any, error) {
	switch kind {
	case KindCodecHeader:
		return decodeCodecHeader(body)
	case KindWireChunk:
		return decodeWireChunk(body)
	case KindServerSettings:
		return decodeServerSettings(body)
	case KindTime:
		return decodeTime(body)
	case KindHello:
		return decodeHello(body)
	case KindStreamTags:
		return decodeStreamTags(body)
	default:
		return nil, fmt.Errorf("%w: %d", snaperr.ErrUnknownTag, kind)
	}
}

// Encode serializes kind/id/refersTo/sent/body into a wire-ready byte
// slice: 26-byte envelope followed by the body. Received is written as
// a placeholder equal to sent, per the stream's send contract -- the
// recipient always overwrites it with its own local time on decode.
func Encode(kind Kind, id, refersTo uint16, sent time.Duration, body any) ([]byte, error) {
	encodedBody, err := encodeBody(kind, body)
	if err != nil {
		return nil, err
	}

	header := Header{
		Type:     kind,
		ID:       id,
		RefersTo: refersTo,
		Received: sent,
		Sent:     sent,
	}

	out := make([]byte, 0, EnvelopeSize+len(encodedBody))
	out = append(out, encodeHeader(header, len(encodedBody))...)
	out = append(out, encodedBody...)

	return out, nil
}

func encodeBody(kind Kind, body any) ([]byte, error) {
	switch kind {
	case KindCodecHeader:
		b, ok := body.(CodecHeaderBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected CodecHeaderBody", snaperr.ErrMalformed)
		}

		return encodeCodecHeader(b), nil
	case KindWireChunk:
		b, ok := body.(WireChunkBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected WireChunkBody", snaperr.ErrMalformed)
		}

		return encodeWireChunk(b), nil
	case KindServerSettings:
		b, ok := body.(ServerSettingsBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected ServerSettingsBody", snaperr.ErrMalformed)
		}

		return encodeServerSettings(b)
	case KindTime:
		b, ok := body.(TimeBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected TimeBody", snaperr.ErrMalformed)
		}

		return encodeTime(b), nil
	case KindHello:
		b, ok := body.(HelloBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected HelloBody", snaperr.ErrMalformed)
		}

		return encodeHello(b)
	case KindStreamTags:
		b, ok := body.(StreamTagsBody)
		if !ok {
			return nil, fmt.Errorf("%w: expected StreamTagsBody", snaperr.ErrMalformed)
		}

		return encodeStreamTags(b)
	default:
		return nil, fmt.Errorf("%w: %d", snaperr.ErrUnknownTag, kind)
	}
}

// --- length-prefixed primitives -------------------------------------------

// readLPBytes reads a 32-bit little-endian length prefix followed by
// that many bytes, returning the payload and the bytes consumed.
func readLPBytes(buf []byte) ([]byte, int, error) {
	if len(buf) < 4 {
		return nil, 0, fmt.Errorf("%w: truncated length prefix", snaperr.ErrMalformed)
	}

	n := binary.LittleEndian.Uint32(buf[0:4])
	if uint64(len(buf)-4) < uint64(n) {
		return nil, 0, fmt.Errorf("%w: truncated payload", snaperr.ErrMalformed)
	}

	return buf[4 : 4+n], int(4 + n), nil
}

func writeLPBytes(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(payload))) //nolint:gosec // payload sizes are bounded well under 2^31
	copy(out[4:], payload)

	return out
}

func readLPString(buf []byte) (string, int, error) {
	raw, n, err := readLPBytes(buf)
	if err != nil {
		return "", 0, err
	}

	if !utf8.Valid(raw) {
		return "", 0, snaperr.ErrBadString
	}

	return string(raw), n, nil
}

// --- CodecHeader -----------------------------------------------------------

func decodeCodecHeader(body []byte) (CodecHeaderBody, error) {
	name, n, err := readLPString(body)
	if err != nil {
		return CodecHeaderBody{}, err
	}

	payload, _, err := readLPBytes(body[n:])
	if err != nil {
		return CodecHeaderBody{}, err
	}

	return CodecHeaderBody{Codec: name, Payload: payload}, nil
}

func encodeCodecHeader(b CodecHeaderBody) []byte {
	out := writeLPBytes([]byte(b.Codec))
	out = append(out, writeLPBytes(b.Payload)...)

	return out
}

// --- WireChunk ---------------------------------------------------------------

func decodeWireChunk(body []byte) (WireChunkBody, error) {
	if len(body) < 8 {
		return WireChunkBody{}, fmt.Errorf("%w: short WireChunk timestamp", snaperr.ErrMalformed)
	}

	sec := int32(binary.LittleEndian.Uint32(body[0:4]))
	usec := int32(binary.LittleEndian.Uint32(body[4:8]))

	payload, _, err := readLPBytes(body[8:])
	if err != nil {
		return WireChunkBody{}, err
	}

	return WireChunkBody{Timestamp: durationFromWire(sec, usec), Payload: payload}, nil
}

func encodeWireChunk(b WireChunkBody) []byte {
	sec, usec := durationToWire(b.Timestamp)

	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out[0:4], uint32(sec))
	binary.LittleEndian.PutUint32(out[4:8], uint32(usec))
	out = append(out, writeLPBytes(b.Payload)...)

	return out
}

// --- ServerSettings ----------------------------------------------------------

func decodeServerSettings(body []byte) (ServerSettingsBody, error) {
	raw, _, err := readLPBytes(body)
	if err != nil {
		return ServerSettingsBody{}, err
	}

	var b ServerSettingsBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return ServerSettingsBody{}, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return b, nil
}

func encodeServerSettings(b ServerSettingsBody) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return writeLPBytes(raw), nil
}

// --- Time ----------------------------------------------------------------

func decodeTime(body []byte) (TimeBody, error) {
	if len(body) < 8 {
		return TimeBody{}, fmt.Errorf("%w: short Time body", snaperr.ErrMalformed)
	}

	sec := int32(binary.LittleEndian.Uint32(body[0:4]))
	usec := int32(binary.LittleEndian.Uint32(body[4:8]))

	return TimeBody{Delta: durationFromWire(sec, usec)}, nil
}

func encodeTime(b TimeBody) []byte {
	sec, usec := durationToWire(b.Delta)

	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out[0:4], uint32(sec))
	binary.LittleEndian.PutUint32(out[4:8], uint32(usec))

	return out
}

// --- Hello -----------------------------------------------------------------

func decodeHello(body []byte) (HelloBody, error) {
	raw, _, err := readLPBytes(body)
	if err != nil {
		return HelloBody{}, err
	}

	var b HelloBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return HelloBody{}, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return b, nil
}

func encodeHello(b HelloBody) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return writeLPBytes(raw), nil
}

// --- StreamTags --------------------------------------------------------------

func decodeStreamTags(body []byte) (StreamTagsBody, error) {
	raw, _, err := readLPBytes(body)
	if err != nil {
		return StreamTagsBody{}, err
	}

	var tags map[string]string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return StreamTagsBody{}, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return StreamTagsBody{Tags: tags}, nil
}

func encodeStreamTags(b StreamTagsBody) ([]byte, error) {
	raw, err := json.Marshal(b.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", snaperr.ErrMalformed, err)
	}

	return writeLPBytes(raw), nil
}
