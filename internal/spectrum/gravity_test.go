package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestGravityDecay_Silence checks Property 5: once the input drops to
// zero and stays there, the displayed value decays monotonically and
// reaches zero within O(sqrt(val)) ticks.
func TestGravityDecay_Silence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		initial := rapid.Float64Range(1, 255).Draw(rt, "initial")

		s := gravityState{val: initial, vel: 0}

		prev := s.val

		ticks := 0
		maxTicks := int(4*math.Sqrt(initial)) + 10

		for s.val > 0 && ticks < maxTicks {
			s.tick(0)

			require.LessOrEqualf(rt, s.val, prev, "value rose during silence at tick %d", ticks)

			prev = s.val
			ticks++
		}

		assert.Zerof(rt, s.val, "gravity did not reach zero within %d ticks from initial %.2f", maxTicks, initial)
	})
}

// TestGravityRise_Impulse checks that a rising input always produces an
// immediate jump (never a slower-than-linear crawl up), per the
// sqrt-impulse rule in §4.6 step 8.
func TestGravityRise_Impulse(t *testing.T) {
	s := gravityState{val: 0, vel: 0}

	got := s.tick(100)

	assert.Greater(t, got, byte(0))
}
