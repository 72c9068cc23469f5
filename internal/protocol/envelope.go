// Package protocol implements the Snapcast wire framing: a fixed 26-byte
// envelope, length-prefixed bodies, and the six message kinds the server
// and client exchange. It is a symmetric decoder/encoder bound to a
// stream's clock origin, not to any particular transport.
package protocol

import (
	"encoding/binary"
	"time"
)

// EnvelopeSize is the exact on-wire size of a message envelope, per the
// protocol's data model: type, id, refers-to, received (sec+usec),
// sent (sec+usec), and a 32-bit body length. All integers little-endian.
const EnvelopeSize = 26

// Kind identifies a message body's wire tag.
type Kind uint16

const (
	KindCodecHeader    Kind = 1
	KindWireChunk      Kind = 2
	KindServerSettings Kind = 3
	KindTime           Kind = 4
	KindHello          Kind = 5
	KindStreamTags     Kind = 6
)

func (k Kind) String() string {
	switch k {
	case KindCodecHeader:
		return "CodecHeader"
	case KindWireChunk:
		return "WireChunk"
	case KindServerSettings:
		return "ServerSettings"
	case KindTime:
		return "Time"
	case KindHello:
		return "Hello"
	case KindStreamTags:
		return "StreamTags"
	default:
		return "Unknown"
	}
}

// Header carries every field of the envelope except the raw body bytes.
type Header struct {
	Type     Kind
	ID       uint16
	RefersTo uint16
	Received time.Duration
	Sent     time.Duration
}

// durationToWire splits a signed duration into whole seconds and a
// residual microsecond count, both emitted as signed 32-bit integers.
func durationToWire(d time.Duration) (sec int32, usec int32) {
	sec = int32(d / time.Second)
	usec = int32((d % time.Second) / time.Microsecond)

	return sec, usec
}

// durationFromWire is the inverse of durationToWire.
func durationFromWire(sec, usec int32) time.Duration {
	return time.Duration(sec)*time.Second + time.Duration(usec)*time.Microsecond
}

// encodeHeader writes the 26-byte envelope for a body of the given size.
func encodeHeader(h Header, bodySize int) []byte {
	buf := make([]byte, EnvelopeSize)

	binary.LittleEndian.PutUint16(buf[0:2], uint16(h.Type))
	binary.LittleEndian.PutUint16(buf[2:4], h.ID)
	binary.LittleEndian.PutUint16(buf[4:6], h.RefersTo)

	recvSec, recvUsec := durationToWire(h.Received)
	binary.LittleEndian.PutUint32(buf[6:10], uint32(recvSec))
	binary.LittleEndian.PutUint32(buf[10:14], uint32(recvUsec))

	sentSec, sentUsec := durationToWire(h.Sent)
	binary.LittleEndian.PutUint32(buf[14:18], uint32(sentSec))
	binary.LittleEndian.PutUint32(buf[18:22], uint32(sentUsec))

	binary.LittleEndian.PutUint32(buf[22:26], uint32(bodySize)) //nolint:gosec // body size is bounded well under 2^31 in practice

	return buf
}

// decodeHeader parses the envelope non-destructively; buf must be at
// least EnvelopeSize bytes. It returns the parsed header and the body
// length n, so the caller can decide whether 26+n bytes are buffered
// before consuming anything.
func decodeHeader(buf []byte) (h Header, bodyLen uint32) {
	h.Type = Kind(binary.LittleEndian.Uint16(buf[0:2]))
	h.ID = binary.LittleEndian.Uint16(buf[2:4])
	h.RefersTo = binary.LittleEndian.Uint16(buf[4:6])

	recvSec := int32(binary.LittleEndian.Uint32(buf[6:10]))
	recvUsec := int32(binary.LittleEndian.Uint32(buf[10:14]))
	h.Received = durationFromWire(recvSec, recvUsec)

	sentSec := int32(binary.LittleEndian.Uint32(buf[14:18]))
	sentUsec := int32(binary.LittleEndian.Uint32(buf[18:22]))
	h.Sent = durationFromWire(sentSec, sentUsec)

	bodyLen = binary.LittleEndian.Uint32(buf[22:26])

	return h, bodyLen
}
