package realnet

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/acolita/udpseam/internal/ports"
)

// FreePortFactory implements ports.FreePortFactory by binding port 0 and
// reading back the port the OS assigned.
//
// The probe socket is closed before the port is returned, so another process
// can take the port before the caller binds it. That race is accepted.
type FreePortFactory struct {
	host netip.Addr
}

// NewFreePortFactory probes on the IPv4 wildcard address, so the port is free
// on every local interface.
func NewFreePortFactory() *FreePortFactory {
	return NewFreePortFactoryOn(netip.IPv4Unspecified())
}

// NewFreePortFactoryOn probes on host.
func NewFreePortFactoryOn(host netip.Addr) *FreePortFactory {
	return &FreePortFactory{host: host}
}

// FreePort returns a port that was unused when probed.
func (f *FreePortFactory) FreePort() (uint16, error) {
	conn, err := net.ListenUDP(network(f.host), net.UDPAddrFromAddrPort(netip.AddrPortFrom(f.host, 0)))
	if err != nil {
		return 0, fmt.Errorf("probe free port: %w", err)
	}
	port := conn.LocalAddr().(*net.UDPAddr).Port
	if err := conn.Close(); err != nil {
		return 0, fmt.Errorf("release probed port %d: %w", port, err)
	}
	return uint16(port), nil
}

var _ ports.FreePortFactory = (*FreePortFactory)(nil)
