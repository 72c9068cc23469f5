// Package discovery resolves a Snapcast server address via mDNS/DNS-SD,
// browsing for the "_snapcast._tcp.local." service the same way the
// teacher's internal dns_sd machinery advertises "_kiss-tnc._tcp" --
// here used for lookup rather than announcement, via
// github.com/brutella/dnssd's browse API.
package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"

	"github.com/kgraymoore/snaplight/internal/snaperr"
)

// ServiceName is the DNS-SD service type this client browses for.
const ServiceName = "_snapcast._tcp.local."

// pollInterval matches §4.3: "polling every 15s". dnssd's browser keeps
// its own mDNS cache warm between responses; this interval only governs
// how often we log that we're still looking.
const pollInterval = 15 * time.Second

// Target is a resolved connect address: host plus port.
type Target struct {
	Host string
	Port int
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// Discover browses for the Snapcast service and returns the first
// response that carries both a usable address and an SRV port. If the
// underlying browse ends (listener closed) before that happens, it
// returns ErrDiscoveryExhausted.
func Discover(ctx context.Context, logger *log.Logger) (Target, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan Target, 1)

	added := func(e dnssd.BrowseEntry) {
		target, ok := pickTarget(e.IPs, e.Port)
		if !ok {
			return
		}

		select {
		case found <- target:
		default:
		}
	}
	removed := func(dnssd.BrowseEntry) {}

	browseErr := make(chan error, 1)

	go func() {
		browseErr <- dnssd.LookupType(ctx, ServiceName, added, removed)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case target := <-found:
			return target, nil
		case err := <-browseErr:
			if err != nil {
				return Target{}, fmt.Errorf("%w: %w", snaperr.ErrDiscoveryExhausted, err)
			}

			return Target{}, snaperr.ErrDiscoveryExhausted
		case <-ctx.Done():
			return Target{}, ctx.Err()
		case <-ticker.C:
			logger.Debug("still looking for Snapcast server", "service", ServiceName)
		}
	}
}

// pickTarget picks a connect address from a browse entry's resolved IPs
// and SRV port, preferring an A (IPv4) record over AAAA when both are
// present, per §4.3.
func pickTarget(ips []net.IP, port int) (Target, bool) {
	if port == 0 || len(ips) == 0 {
		return Target{}, false
	}

	var v4, v6 net.IP

	for _, ip := range ips {
		if ip.To4() != nil {
			if v4 == nil {
				v4 = ip
			}
		} else if v6 == nil {
			v6 = ip
		}
	}

	chosen := v4
	if chosen == nil {
		chosen = v6
	}

	if chosen == nil {
		return Target{}, false
	}

	return Target{Host: chosen.String(), Port: port}, true
}
