package snapclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kgraymoore/snaplight/internal/clock"
	"github.com/kgraymoore/snaplight/internal/controller"
	"github.com/kgraymoore/snaplight/internal/delayqueue"
	"github.com/kgraymoore/snaplight/internal/protocol"
	"github.com/kgraymoore/snaplight/internal/snaperr"
)

// MaxReconnectAttempts bounds how many consecutive failed
// connect-and-handshake cycles are tolerated before the music task
// gives up and leaves the Blank controller holding the channel.
const MaxReconnectAttempts = 5

// reconnectDelay is the pause between retry attempts.
const reconnectDelay = 5 * time.Second

// clockProbeInterval is how often the client re-issues a Time message
// to keep ClockModel's skew estimate fresh, per §4.4: "The client
// should re-issue Time periodically... implementations should probe at
// least every few seconds when idle."
const clockProbeInterval = 5 * time.Second

// Session owns one connection's worth of protocol state: the Stream,
// ClockModel, DelayQueue, and CodecState, plus the buffer-ms value the
// server has most recently announced.
type Session struct {
	stream   *Stream
	clockM   *clock.Model
	queue    *delayqueue.Queue
	codec    CodecState
	bufferMs time.Duration
	logger   *log.Logger
	music    *controller.MusicController
}

// Connect dials addr, sends Hello and Time(0), and returns a ready
// Session. The ClockModel is not yet populated; it becomes ready once
// the server's first Time reply is processed in Run. initialBufferMs
// seeds buffer_ms until the server's first ServerSettings message
// overrides it.
func Connect(addr string, initialBufferMs int, music *controller.MusicController, logger *log.Logger) (*Session, error) {
	stream, err := Dial(addr)
	if err != nil {
		return nil, err
	}

	s := &Session{
		stream:   stream,
		clockM:   clock.New(),
		queue:    delayqueue.New(nil),
		bufferMs: time.Duration(initialBufferMs) * time.Millisecond,
		logger:   logger,
		music:    music,
	}

	if err := stream.Send(protocol.KindHello, buildHello()); err != nil {
		stream.Close()

		return nil, fmt.Errorf("send hello: %w", err)
	}

	if err := stream.Send(protocol.KindTime, protocol.TimeBody{Delta: 0}); err != nil {
		stream.Close()

		return nil, fmt.Errorf("send time: %w", err)
	}

	return s, nil
}

// Close tears down the session's stream and delay queue.
func (s *Session) Close() {
	s.queue.Close()
	s.stream.Close()
}

// Run drives the session until ctx is canceled, the server closes the
// connection, or an unrecoverable protocol/transport error occurs, which
// it returns. A receive goroutine drains and dispatches inbound messages
// while Run itself delivers expired delay-queue frames to the music
// controller.
func (s *Session) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go s.recvLoop(ctx, errCh)
	go s.clockProbeLoop(ctx)

	for {
		frame, ok := s.queue.Next(ctx)
		if !ok {
			select {
			case err := <-errCh:
				return err
			default:
				return nil
			}
		}

		s.music.PushSamples(Downmix(frame.Samples, 1))
	}
}

// clockProbeLoop re-issues Time(0) every clockProbeInterval for as long
// as ctx is live, alongside the recvLoop and the delay-queue drain
// loop. The handshake's initial Time covers the first estimate; this
// keeps ClockModel from drifting stale over a long-running, otherwise
// idle connection. A send failure here means the connection is dead,
// which recvLoop's own Recv will shortly observe and report, so it's
// enough to stop probing and let that happen.
func (s *Session) clockProbeLoop(ctx context.Context) {
	ticker := time.NewTicker(clockProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.stream.Send(protocol.KindTime, protocol.TimeBody{Delta: 0}); err != nil {
				s.logger.Warn("clock probe failed", "err", err)

				return
			}
		}
	}
}

func (s *Session) recvLoop(ctx context.Context, errCh chan<- error) {
	defer close(errCh)

	for {
		select {
		case <-ctx.Done():
			s.queue.Close()

			return
		default:
		}

		msg, ok, err := s.stream.Recv()
		if err != nil {
			// Hand over the error before closing the queue, so Run
			// finds it as soon as Next reports the queue drained.
			errCh <- err
			s.queue.Close()

			return
		}

		if !ok {
			s.queue.Close()

			return
		}

		if err := s.dispatch(*msg); err != nil {
			s.logger.Warn("dropping message", "kind", msg.Header.Type, "err", err)
		}
	}
}

func (s *Session) dispatch(msg protocol.Message) error {
	switch msg.Header.Type {
	case protocol.KindCodecHeader:
		body, ok := msg.Body.(protocol.CodecHeaderBody)
		if !ok {
			return fmt.Errorf("%w: codec header body type", snaperr.ErrMalformed)
		}

		return s.codec.Accept(body.Codec, body.Payload)

	case protocol.KindWireChunk:
		if !s.codec.Ready() {
			return nil
		}

		body, ok := msg.Body.(protocol.WireChunkBody)
		if !ok {
			return fmt.Errorf("%w: wire chunk body type", snaperr.ErrMalformed)
		}

		return s.scheduleChunk(body)

	case protocol.KindServerSettings:
		body, ok := msg.Body.(protocol.ServerSettingsBody)
		if !ok {
			return fmt.Errorf("%w: server settings body type", snaperr.ErrMalformed)
		}

		s.bufferMs = time.Duration(body.BufferMs) * time.Millisecond

		return nil

	case protocol.KindTime:
		s.clockM.Update(msg)

		return nil

	case protocol.KindStreamTags:
		body, ok := msg.Body.(protocol.StreamTagsBody)
		if !ok {
			return fmt.Errorf("%w: stream tags body type", snaperr.ErrMalformed)
		}

		s.music.SetTags(body.Tags)

		return nil

	default:
		return fmt.Errorf("%w: %d", snaperr.ErrUnknownTag, msg.Header.Type)
	}
}

func (s *Session) scheduleChunk(body protocol.WireChunkBody) error {
	block, err := decodeFLACBlock(body.Payload)
	if err != nil {
		s.logger.Warn("dropping wire chunk", "err", err)

		return nil
	}

	mono := downmixInt32(block.samples, block.channels)

	serverNow := s.clockM.ServerNow(s.stream.Elapsed())
	delay := delayqueue.ComputeDelay(body.Timestamp, serverNow, s.bufferMs)

	playLen := delayqueue.PlayLength(len(mono), s.codec.SampleRate())

	s.queue.Insert(delayqueue.Frame{Samples: mono, PlayLen: playLen}, delay)

	return nil
}

// ErrReconnectExhausted is returned by RunWithRetry when
// MaxReconnectAttempts consecutive connect-and-handshake cycles have
// failed.
var ErrReconnectExhausted = errors.New("snapclient: reconnect attempts exhausted")

// RunWithRetry repeatedly connects to addr and runs a Session until ctx
// is canceled, retrying up to MaxReconnectAttempts times (spaced
// reconnectDelay apart) whenever a connection attempt or an active
// session fails. It returns nil only on ctx cancellation.
func RunWithRetry(ctx context.Context, addr string, initialBufferMs int, music *controller.MusicController, logger *log.Logger) error {
	attempts := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		session, err := Connect(addr, initialBufferMs, music, logger)
		if err != nil {
			attempts++

			logger.Warn("connect failed", "attempt", attempts, "err", err)

			if attempts >= MaxReconnectAttempts {
				return ErrReconnectExhausted
			}

			if !sleepOrDone(ctx, reconnectDelay) {
				return nil
			}

			continue
		}

		attempts = 0

		err = session.Run(ctx)
		session.Close()

		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			continue
		}

		attempts++

		logger.Warn("session ended", "attempt", attempts, "err", err)

		if attempts >= MaxReconnectAttempts {
			return ErrReconnectExhausted
		}

		if !sleepOrDone(ctx, reconnectDelay) {
			return nil
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
