// Package snaperr defines the sentinel error categories used across the
// client: transport, protocol framing, codec, discovery, and arbiter
// failures. Callers wrap these with fmt.Errorf("...: %w", ErrX) so
// errors.Is still matches the category while carrying local context.
package snaperr

import "errors"

var (
	// ErrTransport covers TCP connect/read/write failures. The music
	// source treats these as reconnectable.
	ErrTransport = errors.New("transport error")

	// ErrProtocol covers framing or JSON that failed to parse, an
	// unknown message tag, or invalid UTF-8 in a length-prefixed
	// string. The owning stream is torn down.
	ErrProtocol = errors.New("protocol error")

	// ErrUnknownTag is a specific ErrProtocol cause for an
	// unrecognized message type tag.
	ErrUnknownTag = errors.New("unknown message tag")

	// ErrMalformed is a specific ErrProtocol cause for a body that
	// failed to parse (bad JSON, truncated length prefix, etc).
	ErrMalformed = errors.New("malformed message body")

	// ErrBadString is a specific ErrProtocol cause for a
	// length-prefixed string that is not valid UTF-8.
	ErrBadString = errors.New("invalid string encoding")

	// ErrCodec covers an unsupported codec name in a CodecHeader, or
	// a FLAC block that failed to parse. A header mismatch is fatal
	// for the session; a block parse failure only drops the chunk.
	ErrCodec = errors.New("codec error")

	// ErrUnsupportedCodec is a specific ErrCodec cause: the server
	// announced something other than "flac".
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrDiscoveryExhausted means the mDNS browse ended before a
	// usable service record (address + port) arrived.
	ErrDiscoveryExhausted = errors.New("discovery exhausted")

	// ErrArbiter covers a controller tick producing a frame the sink
	// refused. Logged; the display loop keeps running.
	ErrArbiter = errors.New("arbiter error")
)
