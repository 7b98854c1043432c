// Package echo implements a datagram echo responder on top of the UDP socket
// ports. It stands in for a router when exercising clients by hand.
package echo

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/acolita/udpseam/internal/adapters/realnet"
	"github.com/acolita/udpseam/internal/ports"
)

// ErrServerClosed is returned by Serve once the context is done or the socket is closed.
var ErrServerClosed = errors.New("echo: server closed")

// Options configures a Server.
type Options struct {
	// ReadTimeout bounds each receive so cancellation is noticed. 0 blocks
	// until a datagram arrives or the socket is closed.
	ReadTimeout time.Duration
	BufSize     int // <= 0 means 1500
	Logger      *slog.Logger
}

// Server echoes every datagram back to its sender.
type Server struct {
	sock    ports.UDPSocket
	logger  *slog.Logger
	bufSize int
	timeout atomic.Int64
	served  atomic.Int64
}

// NewServer creates a Server that owns sock.
func NewServer(sock ports.UDPSocket, opts Options) *Server {
	if opts.BufSize <= 0 {
		opts.BufSize = 1500
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		sock:    sock,
		logger:  opts.Logger.With(slog.String("component", "echo")),
		bufSize: opts.BufSize,
	}
	s.timeout.Store(int64(opts.ReadTimeout))
	return s
}

// SetReadTimeout changes the receive bound; it is applied before the next receive.
func (s *Server) SetReadTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Served returns the number of datagrams echoed so far.
func (s *Server) Served() int64 {
	return s.served.Load()
}

// Serve runs the echo loop until ctx is done or the socket is closed.
// It always returns a non-nil error; ErrServerClosed marks a clean stop.
func (s *Server) Serve(ctx context.Context) error {
	buf := make([]byte, s.bufSize)
	applied := time.Duration(-1)

	for {
		if ctx.Err() != nil {
			return ErrServerClosed
		}

		if d := time.Duration(s.timeout.Load()); d != applied {
			if err := s.sock.SetReadTimeout(d); err != nil {
				return err
			}
			applied = d
		}

		n, from, err := s.sock.RecvFrom(buf)
		if err != nil {
			switch {
			case realnet.IsTimeout(err):
				continue
			case errors.Is(err, net.ErrClosed):
				s.logger.Info("socket closed, stopping echo loop")
				return ErrServerClosed
			}
			s.logger.Warn("failed to read datagram", slog.String("error", err.Error()))
			continue
		}

		n = min(n, len(buf))
		if _, err := s.sock.SendTo(buf[:n], from); err != nil {
			s.logger.Warn("failed to echo datagram",
				slog.String("to", from.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.served.Add(1)
		s.logger.Debug("echoed datagram", slog.String("to", from.String()), slog.Int("bytes", n))
	}
}
