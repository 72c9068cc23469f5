package sink

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/kgraymoore/snaplight/internal/spectrum"
)

// LEDsPerLight is how many consecutive LEDs on a WS281x strip show one
// light's color, per the GPIO sink variant of the LED sink contract.
const LEDsPerLight = 12

// GPIOSink demonstrates the line-level handshake for a WS281x strip
// controller: it latches a fresh frame by pulsing a GPIO line, and
// leaves the 800kHz bit-banged pixel timing itself to the external
// strip controller hardware, which is outside this client's scope.
type GPIOSink struct {
	latch *gpiocdev.Line
	frame [spectrum.NumLights * LEDsPerLight * 3]byte
}

// OpenGPIOSink requests the named GPIO chip's offset line as an
// output, initially low, for use as the strip's latch/data-ready line.
func OpenGPIOSink(chip string, offset int) (*GPIOSink, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request gpio line %s:%d: %w", chip, offset, err)
	}

	return &GPIOSink{latch: line}, nil
}

// Write fills the internal pixel buffer (each light's color repeated
// LEDsPerLight times, matching "each light occupies 12 consecutive
// LEDs, same color") and pulses the latch line to signal the strip
// controller that a new frame is ready.
func (g *GPIOSink) Write(colors [spectrum.NumLights]spectrum.Color) error {
	off := 0

	for _, c := range colors {
		for i := 0; i < LEDsPerLight; i++ {
			g.frame[off] = c.R
			g.frame[off+1] = c.G
			g.frame[off+2] = c.B
			off += 3
		}
	}

	if err := g.latch.SetValue(1); err != nil {
		return fmt.Errorf("assert gpio latch: %w", err)
	}

	if err := g.latch.SetValue(0); err != nil {
		return fmt.Errorf("deassert gpio latch: %w", err)
	}

	return nil
}

// Close releases the GPIO line.
func (g *GPIOSink) Close() error {
	return g.latch.Close()
}
