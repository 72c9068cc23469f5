// Package controller implements the Controller interface and its two
// concrete light sources: Music (driven by the FFT pipeline over the
// network audio stream) and Blank (always-active, all-off fallback).
package controller

import "github.com/kgraymoore/snaplight/internal/spectrum"

// Controller produces one [spectrum.NumLights] colors per display tick
// when active. The arbiter polls IsActive/Tick on every controller in
// priority order and displays the first one that is active.
type Controller interface {
	IsActive() bool
	Tick() [spectrum.NumLights]spectrum.Color
}
