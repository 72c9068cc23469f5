package snapclient

import (
	"runtime"

	"github.com/kgraymoore/snaplight/internal/hostinfo"
	"github.com/kgraymoore/snaplight/internal/protocol"
)

// protocolVersion is the Snap stream protocol version this client
// speaks.
const protocolVersion = 2

// ClientVersion is reported in the Hello message; overridden at build
// time by main from internal/buildinfo.
var ClientVersion = "dev"

// buildHello assembles the Hello body from host facts: architecture,
// hostname, MAC (used for both ID and MAC per spec), instance 1, OS
// name, and the negotiated protocol/client versions.
func buildHello() protocol.HelloBody {
	facts := hostinfo.Collect()

	return protocol.HelloBody{
		Arch:                      runtime.GOARCH,
		ClientName:                "snaplight",
		HostName:                  facts.HostName,
		ID:                        facts.MAC,
		Instance:                  1,
		MAC:                       facts.MAC,
		OS:                        runtime.GOOS,
		SnapStreamProtocolVersion: protocolVersion,
		Version:                   ClientVersion,
	}
}
