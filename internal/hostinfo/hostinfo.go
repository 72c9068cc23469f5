// Package hostinfo collects the host facts the Hello message needs:
// architecture, hostname, and a MAC address to use as both ID and MAC.
package hostinfo

import (
	"net"
	"os"
	"runtime"

	"github.com/google/uuid"
)

// Facts is everything Hello needs beyond the client's own name/version.
type Facts struct {
	Arch     string
	HostName string
	MAC      string
}

// Collect gathers host facts from the running system. If no non-loopback
// interface with a hardware address can be found (common in containers
// and CI), a random v4 UUID stands in for MAC/ID instead -- the server
// only needs a stable-enough identifier, not a real MAC.
func Collect() Facts {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return Facts{
		Arch:     runtime.GOARCH,
		HostName: hostname,
		MAC:      firstMAC(),
	}
}

func firstMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return uuid.NewString()
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		if len(iface.HardwareAddr) == 0 {
			continue
		}

		return iface.HardwareAddr.String()
	}

	return uuid.NewString()
}
