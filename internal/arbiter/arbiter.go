// Package arbiter polls a priority-ordered list of controllers at a
// fixed tick rate and displays whichever is active and first in line,
// per spec's "polling over message-passing" design decision.
package arbiter

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kgraymoore/snaplight/internal/controller"
	"github.com/kgraymoore/snaplight/internal/spectrum"
)

// tickInterval is the display loop's fixed period: 60Hz.
const tickInterval = time.Second / 60

// statsInterval is how often accumulated per-controller tick counts
// are logged as a summary line.
const statsInterval = 5 * time.Second

// Sink is the output the arbiter writes each tick's chosen colors to.
type Sink interface {
	Write(colors [spectrum.NumLights]spectrum.Color) error
}

// Arbiter owns the single LED output channel and polls its
// controllers, highest priority first, once per tick.
type Arbiter struct {
	controllers []controller.Controller
	names       []string
	sink        Sink
	logger      *log.Logger

	current int
	counts  []uint64

	frameSum time.Duration
	frameN   uint64
}

// New builds an Arbiter over controllers in descending priority order;
// controllers[0] wins whenever it is active. names must be the same
// length, used only for logging.
func New(controllers []controller.Controller, names []string, sink Sink, logger *log.Logger) *Arbiter {
	return &Arbiter{
		controllers: controllers,
		names:       names,
		sink:        sink,
		logger:      logger,
		current:     -1,
		counts:      make([]uint64, len(controllers)),
	}
}

// Run drives the display loop until ctx is canceled. It never returns a
// nil error on success; callers should treat context cancellation as
// the normal shutdown path.
func (a *Arbiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logEvent("stop", -1)

			return ctx.Err()
		case <-statsTicker.C:
			a.logStats()
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Arbiter) tick() {
	frameStart := time.Now()
	defer func() {
		a.frameSum += time.Since(frameStart)
		a.frameN++
	}()

	for i, c := range a.controllers {
		if !c.IsActive() {
			continue
		}

		if i != a.current {
			if a.current >= 0 {
				a.logEvent("relinquish", a.current)
			}

			a.logEvent("take-over", i)
			a.current = i
		}

		colors := c.Tick()
		a.counts[i]++

		if err := a.sink.Write(colors); err != nil {
			a.logger.Error("sink write failed", "controller", a.names[i], "err", err)
		}

		return
	}

	// No controller is active: every registered controller declined the
	// tick. This should not happen when a Blank controller (always
	// active) sits last in line, but if the caller omitted one, log it
	// as a denied request rather than panicking on an empty display.
	a.logEvent("request-denied", -1)
}

func (a *Arbiter) logEvent(event string, index int) {
	if index < 0 {
		a.logger.Debug("arbiter event", "event", event)

		return
	}

	a.logger.Info("arbiter event", "event", event, "controller", a.names[index])
}

func (a *Arbiter) logStats() {
	fields := make([]any, 0, len(a.counts)*2+4)
	for i, n := range a.counts {
		fields = append(fields, a.names[i], n)
	}

	var avgFrameMs float64
	if a.frameN > 0 {
		avgFrameMs = float64(a.frameSum.Microseconds()) / 1000 / float64(a.frameN)
	}

	fields = append(fields, "frame_count", a.frameN, "avg_frame_ms", avgFrameMs)

	a.logger.Debug("arbiter stats", fields...)

	a.frameSum = 0
	a.frameN = 0
}
