// Package metrics provides Prometheus instrumentation for the UDP socket ports.
package metrics

import (
	"net/netip"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/acolita/udpseam/internal/ports"
)

// Metrics holds the counters shared by every instrumented socket.
type Metrics struct {
	datagramsSent     prometheus.Counter
	datagramsReceived prometheus.Counter
	bytesSent         prometheus.Counter
	bytesReceived     prometheus.Counter
	shortWrites       prometheus.Counter
	socketsBound      prometheus.Counter
	errors            *prometheus.CounterVec
}

// New registers the udpseam metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		datagramsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_datagrams_sent_total",
			Help: "Total number of datagrams handed to the network",
		}),
		datagramsReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_datagrams_received_total",
			Help: "Total number of datagrams received",
		}),
		bytesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_bytes_sent_total",
			Help: "Total number of payload bytes sent",
		}),
		bytesReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_bytes_received_total",
			Help: "Total number of payload bytes received",
		}),
		shortWrites: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_short_writes_total",
			Help: "Total number of sends that transmitted fewer bytes than requested",
		}),
		socketsBound: f.NewCounter(prometheus.CounterOpts{
			Name: "udpseam_sockets_bound_total",
			Help: "Total number of sockets bound through an instrumented factory",
		}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "udpseam_socket_errors_total",
			Help: "Total number of failed socket operations",
		}, []string{"op"}), // op: bind, recv, send, set_read_timeout, close
	}
}

// Socket returns next instrumented with m.
func (m *Metrics) Socket(next ports.UDPSocket) ports.UDPSocket {
	return &socket{next: next, m: m}
}

// Factory returns next instrumented with m; every socket it binds is instrumented too.
func (m *Metrics) Factory(next ports.UDPSocketFactory) ports.UDPSocketFactory {
	return &factory{next: next, m: m}
}

type socket struct {
	next ports.UDPSocket
	m    *Metrics
}

func (s *socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	n, from, err := s.next.RecvFrom(buf)
	if err != nil {
		s.m.errors.WithLabelValues("recv").Inc()
		return n, from, err
	}
	s.m.datagramsReceived.Inc()
	s.m.bytesReceived.Add(float64(n))
	return n, from, nil
}

func (s *socket) SendTo(buf []byte, addr netip.AddrPort) (int, error) {
	n, err := s.next.SendTo(buf, addr)
	if err != nil {
		s.m.errors.WithLabelValues("send").Inc()
		return n, err
	}
	s.m.datagramsSent.Inc()
	s.m.bytesSent.Add(float64(n))
	if n < len(buf) {
		s.m.shortWrites.Inc()
	}
	return n, nil
}

func (s *socket) SetReadTimeout(d time.Duration) error {
	err := s.next.SetReadTimeout(d)
	if err != nil {
		s.m.errors.WithLabelValues("set_read_timeout").Inc()
	}
	return err
}

func (s *socket) Close() error {
	err := s.next.Close()
	if err != nil {
		s.m.errors.WithLabelValues("close").Inc()
	}
	return err
}

type factory struct {
	next ports.UDPSocketFactory
	m    *Metrics
}

func (f *factory) Bind(addr netip.AddrPort) (ports.UDPSocket, error) {
	sock, err := f.next.Bind(addr)
	if err != nil {
		f.m.errors.WithLabelValues("bind").Inc()
		return nil, err
	}
	f.m.socketsBound.Inc()
	return f.m.Socket(sock), nil
}
