package controller

import (
	"sync"

	"github.com/kgraymoore/snaplight/internal/spectrum"
)

// staleAfterTicks is the number of consecutive ticks without a fresh
// frame after which MusicController reports itself inactive, handing
// the display back to a lower-priority controller.
const staleAfterTicks = 10

// MusicController drives the light bar from network audio via the FFT
// pipeline. A single-slot mailbox holds the most recently pushed frame;
// PushSamples (called by the music producer goroutine) overwrites it
// without blocking, and Tick (called by the display loop) consumes
// whatever is there, or re-runs the pipeline on stale buffer contents
// if nothing new arrived since the last tick.
type MusicController struct {
	mu sync.Mutex

	pipeline *spectrum.Pipeline

	pending []float64
	hasNew  bool

	ticksSinceNewFrame int

	tags map[string]string
}

// NewMusicController builds a MusicController over a fresh FFT pipeline
// sized for sampleRate.
func NewMusicController(sampleRate int) *MusicController {
	return &MusicController{
		pipeline:           spectrum.NewPipeline(sampleRate),
		ticksSinceNewFrame: staleAfterTicks,
		tags:               map[string]string{},
	}
}

// PushSamples hands a new batch of downmixed PCM samples to the
// controller. It overwrites whatever was pending; stale, un-consumed
// frames are acceptable per the single-slot mailbox design.
func (m *MusicController) PushSamples(samples []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = samples
	m.hasNew = true
}

// SetTags records the server's most recent StreamTags metadata
// (kind 6), completing the data model the wire protocol defines but
// the display pipeline itself never needed.
func (m *MusicController) SetTags(tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags = tags
}

// Tags returns the most recently received StreamTags metadata.
func (m *MusicController) Tags() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tags
}

// IsActive reports whether a frame has arrived recently enough that
// this controller should still own the display: a pending, not yet
// consumed frame counts as recent.
func (m *MusicController) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hasNew || m.ticksSinceNewFrame < staleAfterTicks
}

// Tick feeds any pending frame into the pipeline and runs one pipeline
// step, returning the resulting per-light colors.
func (m *MusicController) Tick() [spectrum.NumLights]spectrum.Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasNew {
		m.pipeline.Feed(m.pending)
		m.hasNew = false
		m.ticksSinceNewFrame = 0
	} else {
		m.ticksSinceNewFrame++
	}

	return m.pipeline.Tick()
}
