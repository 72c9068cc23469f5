package controller

import "github.com/kgraymoore/snaplight/internal/spectrum"

// BlankController is always active and always dark. It sits last in
// the arbiter's priority order as the fallback when nothing else wants
// the display.
type BlankController struct{}

// NewBlankController builds a BlankController.
func NewBlankController() *BlankController {
	return &BlankController{}
}

// IsActive always reports true: Blank never yields to "nothing".
func (b *BlankController) IsActive() bool {
	return true
}

// Tick returns every light off.
func (b *BlankController) Tick() [spectrum.NumLights]spectrum.Color {
	var out [spectrum.NumLights]spectrum.Color

	return out
}
