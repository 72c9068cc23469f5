// Package snapclient wires the wire codec, clock model, delay queue,
// and FFT pipeline into a single Snapcast client session: connect,
// handshake, receive, schedule, downmix, and feed the music controller.
package snapclient

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/kgraymoore/snaplight/internal/protocol"
	"github.com/kgraymoore/snaplight/internal/snaperr"
)

// Stream wraps an open TCP connection plus the framed codec and the
// per-connection send-side state (T0, next_id). sendMu serializes Send
// calls, which come from the handshake in Connect and, once a session
// is running, from the clock probe's own goroutine.
type Stream struct {
	conn    net.Conn
	decoder *protocol.Decoder
	t0      time.Time

	sendMu sync.Mutex
	nextID uint16
}

// Dial opens a TCP connection to addr and returns a Stream with T0 set
// to the moment the connection was established.
func Dial(addr string) (*Stream, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	t0 := time.Now()

	return &Stream{
		conn:    conn,
		decoder: protocol.NewDecoder(func() time.Duration { return time.Since(t0) }),
		t0:      t0,
	}, nil
}

// Elapsed returns how long this Stream's connection has been open.
func (s *Stream) Elapsed() time.Duration {
	return time.Since(s.t0)
}

// Send encodes and writes a message of the given kind, stamping sent
// (and, as a placeholder, received) as elapsed-since-T0. The recipient
// overwrites received on decode.
func (s *Stream) Send(kind protocol.Kind, body any) error {
	sent := s.Elapsed()

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	buf, err := protocol.Encode(kind, s.nextID, 0, sent, body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	s.nextID++

	if _, err := s.conn.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}

	return nil
}

// Recv blocks until the next fully-framed message is available,
// reading more bytes off the connection as needed. It returns
// (nil, false, nil) only on clean EOF.
func (s *Stream) Recv() (*protocol.Message, bool, error) {
	for {
		msg, ok, err := s.decoder.Decode()
		if err != nil {
			return nil, false, err
		}

		if ok {
			return msg, true, nil
		}

		chunk := make([]byte, 64*1024)

		n, err := s.conn.Read(chunk)
		if n > 0 {
			s.decoder.Feed(chunk[:n])
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, false, nil
			}

			return nil, false, fmt.Errorf("%w: read: %w", snaperr.ErrTransport, err)
		}
	}
}

// Close tears down the underlying connection.
func (s *Stream) Close() error {
	return s.conn.Close()
}
