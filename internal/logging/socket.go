package logging

import (
	"log/slog"
	"net/netip"
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

// maxDumpBytes caps datagram hex dumps; NAT-PMP and PCP messages fit well within it.
const maxDumpBytes = 64

// Socket decorates a ports.UDPSocket with debug logging of every operation.
type Socket struct {
	next   ports.UDPSocket
	logger *slog.Logger
	dump   bool
}

// NewSocket wraps next. With dump set, datagram contents are logged as hex.
func NewSocket(next ports.UDPSocket, logger *slog.Logger, dump bool) *Socket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Socket{next: next, logger: logger, dump: dump}
}

// RecvFrom logs the received datagram or the failure.
func (s *Socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	n, from, err := s.next.RecvFrom(buf)
	if err != nil {
		s.logger.Debug("udp recv failed", slog.String("error", err.Error()))
		return n, from, err
	}

	attrs := []any{slog.Int("bytes", n), slog.String("from", from.String())}
	if s.dump {
		attrs = append(attrs, dumpAttr(buf[:min(n, len(buf))]))
	}
	s.logger.Debug("udp recv", attrs...)
	return n, from, nil
}

// SendTo logs the datagram and warns about short writes.
func (s *Socket) SendTo(buf []byte, addr netip.AddrPort) (int, error) {
	n, err := s.next.SendTo(buf, addr)
	if err != nil {
		s.logger.Debug("udp send failed",
			slog.String("to", addr.String()),
			slog.String("error", err.Error()),
		)
		return n, err
	}

	if n < len(buf) {
		s.logger.Warn("short udp write",
			slog.String("to", addr.String()),
			slog.Int("bytes", n),
			slog.Int("requested", len(buf)),
		)
	}

	attrs := []any{slog.Int("bytes", n), slog.String("to", addr.String())}
	if s.dump {
		attrs = append(attrs, dumpAttr(buf))
	}
	s.logger.Debug("udp send", attrs...)
	return n, nil
}

// SetReadTimeout logs the new timeout.
func (s *Socket) SetReadTimeout(d time.Duration) error {
	err := s.next.SetReadTimeout(d)
	if err != nil {
		s.logger.Debug("udp set read timeout failed",
			slog.Duration("timeout", d),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.logger.Debug("udp read timeout set", slog.Duration("timeout", d))
	return nil
}

// Close closes the wrapped socket.
func (s *Socket) Close() error {
	err := s.next.Close()
	if err != nil {
		s.logger.Debug("udp close failed", slog.String("error", err.Error()))
		return err
	}
	s.logger.Debug("udp socket closed")
	return nil
}

// SocketFactory decorates a ports.UDPSocketFactory so every bound socket logs.
type SocketFactory struct {
	next   ports.UDPSocketFactory
	logger *slog.Logger
	dump   bool
}

// NewSocketFactory wraps next.
func NewSocketFactory(next ports.UDPSocketFactory, logger *slog.Logger, dump bool) *SocketFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &SocketFactory{next: next, logger: logger, dump: dump}
}

// Bind binds through the wrapped factory and decorates the result.
func (f *SocketFactory) Bind(addr netip.AddrPort) (ports.UDPSocket, error) {
	sock, err := f.next.Bind(addr)
	if err != nil {
		f.logger.Warn("udp bind failed",
			slog.String("addr", addr.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	logger := f.logger.With(slog.String("local", addr.String()))
	logger.Debug("udp socket bound")
	return NewSocket(sock, logger, f.dump), nil
}

func dumpAttr(data []byte) slog.Attr {
	s := hexDump(data, maxDumpBytes)
	if len(data) > maxDumpBytes {
		s += "..."
	}
	return slog.String("data", s)
}

// Ensure the decorators implement their ports.
var (
	_ ports.UDPSocket        = (*Socket)(nil)
	_ ports.UDPSocketFactory = (*SocketFactory)(nil)
)
