package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/kgraymoore/snaplight/internal/protocol"
)

func timeMsg(delta, sent, received time.Duration) protocol.Message {
	return protocol.Message{
		Header: protocol.Header{Type: protocol.KindTime, Sent: sent, Received: received},
		Body:   protocol.TimeBody{Delta: delta},
	}
}

// S3: delta=+20ms, sent-received=+10ms => time_diff == +15ms.
func TestClockSync_S3(t *testing.T) {
	m := New()
	assert.False(t, m.Ready())

	got := m.Update(timeMsg(20*time.Millisecond, 10*time.Millisecond, 0))

	assert.Equal(t, 15*time.Millisecond, got)
	assert.True(t, m.Ready())
	assert.Equal(t, 15*time.Millisecond, m.TimeDiff())
}

// Property 3: against a stationary peer (constant true skew), repeated
// Time round-trips keep the estimate close to the true skew rather than
// drifting away from it.
func TestClockModel_StationaryConvergence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		trueSkew := time.Duration(rapid.Int64Range(-int64(time.Second), int64(time.Second)).Draw(t, "trueSkew"))
		rounds := rapid.IntRange(1, 20).Draw(t, "rounds")

		m := New()

		var maxDeviation time.Duration

		for range rounds {
			// A stationary peer: both observed skews equal the true
			// skew modulo symmetric jitter that should average out.
			jitter := time.Duration(rapid.Int64Range(-int64(time.Millisecond), int64(time.Millisecond)).Draw(t, "jitter"))

			delta := trueSkew + jitter
			sentMinusReceived := trueSkew - jitter

			got := m.Update(timeMsg(delta, sentMinusReceived, 0))

			dev := got - trueSkew
			if dev < 0 {
				dev = -dev
			}

			if dev > maxDeviation {
				maxDeviation = dev
			}
		}

		assert.LessOrEqual(t, maxDeviation, time.Millisecond,
			"estimate must not diverge from the true skew on a stationary peer")
	})
}
