// Package sink implements the two LED sink variants named in the spec:
// a GPIO-driven WS281x strip sink and a serial-port sink, both taking
// one [spectrum.NumLights]Color array per arbiter tick.
package sink

import "github.com/kgraymoore/snaplight/internal/spectrum"

// NumStrips is the number of physical strips the serial frame format
// addresses, one per light.
const NumStrips = spectrum.NumLights

// LEDsPerStrip is how many consecutive LEDs on a strip show the same
// light's color.
const LEDsPerStrip = 8
