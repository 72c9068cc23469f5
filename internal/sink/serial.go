package sink

import (
	"fmt"

	"github.com/pkg/term"

	"github.com/kgraymoore/snaplight/internal/spectrum"
)

// DefaultSerialPort and DefaultBaud match the device spec assumes when
// the operator doesn't override them.
const (
	DefaultSerialPort = "/dev/ttyACM0"
	DefaultBaud       = 115200

	// frameSize is NumStrips * (LEDsPerStrip*3 + 2 sentinel bytes).
	frameSize = NumStrips * (LEDsPerStrip*3 + 2)
)

// SerialSink writes the fixed 78-byte frame format to a serial port:
// per strip, LEDsPerStrip RGB triples (each channel divided by 4)
// followed by two 0xFF sentinel bytes. No other framing or checksum.
type SerialSink struct {
	port *term.Term
	buf  [frameSize]byte
}

// OpenSerialSink opens the named serial device at baud and returns a
// SerialSink ready to receive frames.
func OpenSerialSink(path string, baud int) (*SerialSink, error) {
	t, err := term.Open(path, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	return &SerialSink{port: t}, nil
}

// Write encodes colors into the wire frame and writes it in one call.
func (s *SerialSink) Write(colors [spectrum.NumLights]spectrum.Color) error {
	off := 0

	for _, c := range colors {
		r, g, b := c.R/4, c.G/4, c.B/4

		for i := 0; i < LEDsPerStrip; i++ {
			s.buf[off] = r
			s.buf[off+1] = g
			s.buf[off+2] = b
			off += 3
		}

		s.buf[off] = 0xFF
		s.buf[off+1] = 0xFF
		off += 2
	}

	if _, err := s.port.Write(s.buf[:]); err != nil {
		return fmt.Errorf("write serial frame: %w", err)
	}

	return nil
}

// Close releases the underlying serial port.
func (s *SerialSink) Close() error {
	return s.port.Close()
}
