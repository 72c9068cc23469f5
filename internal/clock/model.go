// Package clock implements the client-side ClockModel: a single signed
// offset between the server's monotonic clock and this client's, updated
// by each Time message round-trip.
package clock

import (
	"sync"
	"time"

	"github.com/kgraymoore/snaplight/internal/protocol"
)

// Model holds the current estimate of time_diff = server_clock -
// client_clock. It is undefined (Ready() == false) until the first Time
// message has been processed.
//
// The combining formula is inferred from observed behavior rather than
// a formal spec: a Time message's body carries the peer's own observed
// one-way skew (client_to_server), and the envelope's Sent/Received pair
// -- both already expressed in this side's duration units by the codec
// -- gives the other direction's skew (server_to_client). Averaging the
// two cancels one-way transmission delay under the assumption it is
// roughly symmetric; this is the same trick NTP uses.
type Model struct {
	mu       sync.RWMutex
	timeDiff time.Duration
	ready    bool
}

// New returns a Model with no estimate yet.
func New() *Model {
	return &Model{}
}

// Update folds in one Time response and returns the new time_diff.
func (m *Model) Update(msg protocol.Message) time.Duration {
	body, _ := msg.Body.(protocol.TimeBody)

	clientToServer := body.Delta
	serverToClient := msg.Sent - msg.Received

	diff := (clientToServer + serverToClient) / 2

	m.mu.Lock()
	m.timeDiff = diff
	m.ready = true
	m.mu.Unlock()

	return diff
}

// TimeDiff returns the current estimate. Callers should check Ready
// first; a zero-value Model reports a zero diff, which is
// indistinguishable from a genuinely synced clock with zero skew.
func (m *Model) TimeDiff() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.timeDiff
}

// Ready reports whether at least one Time round-trip has been processed.
func (m *Model) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ready
}

// ServerNow projects the server's elapsed-since-its-T0 clock forward
// from this client's own elapsed time, per §4.5: server_now =
// T0.elapsed() + time_diff.
func (m *Model) ServerNow(clientElapsed time.Duration) time.Duration {
	return clientElapsed + m.TimeDiff()
}
