// Package ports defines interfaces for external dependencies (Ports and Adapters pattern).
package ports

import (
	"net/netip"
	"time"
)

// UDPSocket abstracts the datagram operations a port-mapping client performs
// on a bound UDP socket.
type UDPSocket interface {
	// RecvFrom blocks until a datagram arrives or the read timeout elapses.
	// The datagram is copied into buf from offset 0 and truncated if buf is
	// too small.
	RecvFrom(buf []byte) (n int, from netip.AddrPort, err error)

	// SendTo transmits buf to addr. A count below len(buf) is reported with a
	// nil error; callers compare it against the length they asked for.
	SendTo(buf []byte, addr netip.AddrPort) (n int, err error)

	// SetReadTimeout bounds every later RecvFrom by d. Zero clears the bound.
	SetReadTimeout(d time.Duration) error

	// Close releases the underlying socket.
	Close() error
}

// UDPSocketFactory produces sockets bound to a local address.
type UDPSocketFactory interface {
	// Bind binds a new UDP socket to addr.
	Bind(addr netip.AddrPort) (UDPSocket, error)
}

// FreePortFactory hands out local ports that were unused when probed.
type FreePortFactory interface {
	// FreePort returns a port that was free at the instant of the probe.
	// Another process may take it before the caller binds.
	FreePort() (uint16, error)
}
