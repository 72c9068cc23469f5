package discovery

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S2: an mDNS response bearing both an A record 192.168.1.42 and an
// AAAA record fe80::1, plus SRV port 1704, must resolve to
// (192.168.1.42, 1704) -- A preferred over AAAA.
func TestPickTarget_S2(t *testing.T) {
	ips := []net.IP{net.ParseIP("fe80::1"), net.ParseIP("192.168.1.42")}

	target, ok := pickTarget(ips, 1704)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.42", target.Host)
	assert.Equal(t, 1704, target.Port)
}

func TestPickTarget_AAAAOnly(t *testing.T) {
	ips := []net.IP{net.ParseIP("fe80::1")}

	target, ok := pickTarget(ips, 1704)
	require.True(t, ok)
	assert.Equal(t, "fe80::1", target.Host)
}

func TestPickTarget_NoPortOrAddress(t *testing.T) {
	_, ok := pickTarget(nil, 1704)
	assert.False(t, ok)

	_, ok = pickTarget([]net.IP{net.ParseIP("192.168.1.42")}, 0)
	assert.False(t, ok)
}
