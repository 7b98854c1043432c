// Package realnet provides real implementations of the UDP socket ports on top of the net package.
package realnet

import (
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

// Socket implements ports.UDPSocket over a single bound *net.UDPConn.
// The Socket owns the connection; Close releases it.
type Socket struct {
	conn *net.UDPConn

	// timeout is the relative read timeout in nanoseconds, 0 meaning none.
	// Deadlines in net are absolute, so it is applied at the start of every RecvFrom.
	timeout atomic.Int64
}

// NewSocket wraps an already bound connection.
func NewSocket(conn *net.UDPConn) *Socket {
	return &Socket{conn: conn}
}

// RecvFrom reads one datagram into buf.
func (s *Socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	var deadline time.Time
	if d := time.Duration(s.timeout.Load()); d > 0 {
		deadline = time.Now().Add(d)
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return 0, netip.AddrPort{}, err
	}

	n, from, err := s.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		return n, netip.AddrPort{}, err
	}
	// Dual-stack sockets report IPv4 peers as ::ffff:a.b.c.d.
	return n, netip.AddrPortFrom(from.Addr().Unmap(), from.Port()), nil
}

// SendTo writes buf to addr in a single datagram.
func (s *Socket) SendTo(buf []byte, addr netip.AddrPort) (int, error) {
	return s.conn.WriteToUDPAddrPort(buf, addr)
}

// SetReadTimeout bounds later RecvFrom calls by d. A read already blocked
// keeps the deadline it started with.
func (s *Socket) SetReadTimeout(d time.Duration) error {
	if d < 0 {
		return &net.OpError{Op: "set", Net: "udp", Source: s.conn.LocalAddr(), Err: ErrNegativeTimeout}
	}
	s.timeout.Store(int64(d))
	return nil
}

// Close closes the underlying connection.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// LocalAddr returns the address the socket is bound to.
func (s *Socket) LocalAddr() netip.AddrPort {
	return s.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// SocketFactory implements ports.UDPSocketFactory by binding OS sockets.
type SocketFactory struct{}

// NewSocketFactory creates a new SocketFactory.
func NewSocketFactory() *SocketFactory {
	return &SocketFactory{}
}

// Bind binds a UDP socket to addr. It never retries and never enables
// address reuse, so a second bind to a taken address fails.
func (f *SocketFactory) Bind(addr netip.AddrPort) (ports.UDPSocket, error) {
	if !addr.IsValid() {
		return nil, &net.OpError{Op: "listen", Net: "udp", Err: ErrInvalidAddress}
	}
	conn, err := net.ListenUDP(network(addr.Addr()), net.UDPAddrFromAddrPort(addr))
	if err != nil {
		return nil, err
	}
	return NewSocket(conn), nil
}

func network(a netip.Addr) string {
	if a.Is4() {
		return "udp4"
	}
	return "udp"
}

// Ensure the adapters implement their ports.
var (
	_ ports.UDPSocket        = (*Socket)(nil)
	_ ports.UDPSocketFactory = (*SocketFactory)(nil)
)
