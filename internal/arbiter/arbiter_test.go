package arbiter

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kgraymoore/snaplight/internal/controller"
	"github.com/kgraymoore/snaplight/internal/spectrum"
)

// fakeController lets tests flip IsActive and records how many times
// Tick was called, returning a fixed, identifiable color.
type fakeController struct {
	active bool
	color  byte
	ticks  int
}

func (f *fakeController) IsActive() bool { return f.active }

func (f *fakeController) Tick() [spectrum.NumLights]spectrum.Color {
	f.ticks++

	var out [spectrum.NumLights]spectrum.Color
	for i := range out {
		out[i] = spectrum.Color{I: f.color}
	}

	return out
}

type recordingSink struct {
	last [spectrum.NumLights]spectrum.Color
}

func (r *recordingSink) Write(colors [spectrum.NumLights]spectrum.Color) error {
	r.last = colors

	return nil
}

// TestArbiterPriority_Property6 checks that among however many
// controllers report active, the one with the lowest index (highest
// priority) is the one whose output reaches the sink.
func TestArbiterPriority_Property6(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")

		fakes := make([]*fakeController, n)
		controllers := make([]controller.Controller, n)
		names := make([]string, n)

		activeFlags := rapid.SliceOfN(rapid.Bool(), n, n).Draw(rt, "active")

		// Guarantee at least one active controller so the test has a
		// defined expected winner.
		anyActive := false

		for _, a := range activeFlags {
			anyActive = anyActive || a
		}

		if !anyActive {
			activeFlags[n-1] = true
		}

		for i := range fakes {
			fakes[i] = &fakeController{active: activeFlags[i], color: byte(i + 1)}
			controllers[i] = fakes[i]
			names[i] = string(rune('a' + i))
		}

		sink := &recordingSink{}
		logger := log.New(discard{})

		a := New(controllers, names, sink, logger)
		a.tick()

		expected := -1

		for i, active := range activeFlags {
			if active {
				expected = i

				break
			}
		}

		require.NotEqual(rt, -1, expected)
		assert.Equal(rt, byte(expected+1), sink.last[0].I)
		assert.Equal(rt, 1, fakes[expected].ticks)
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestArbiterRun_StopsOnContextCancel(t *testing.T) {
	fakes := []*fakeController{{active: true, color: 9}}
	controllers := []controller.Controller{fakes[0]}

	sink := &recordingSink{}
	logger := log.New(discard{})

	a := New(controllers, []string{"music"}, sink, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := a.Run(ctx)
	require.Error(t, err)
}
