// Package probe sends one datagram from a freshly allocated local port and
// waits for the reply. It reaches the network only through the UDP socket
// ports, so every step can be scripted in tests.
package probe

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

var (
	// ErrShortWrite is returned when the socket accepted fewer bytes than the payload.
	ErrShortWrite = errors.New("probe: short write")

	// ErrUnexpectedSender is returned when the reply comes from an address other than the target.
	ErrUnexpectedSender = errors.New("probe: reply from unexpected sender")
)

// NonceSize is the length of the random payload sent when none is given.
const NonceSize = 12

// Config controls how probes bind and wait.
type Config struct {
	BindHost    netip.Addr    // invalid means 0.0.0.0
	ReadTimeout time.Duration // 0 waits forever
	RecvBuffer  int           // <= 0 means 1500
}

// Result describes one completed exchange.
type Result struct {
	Local     netip.AddrPort
	Sent      []byte
	Reply     []byte
	From      netip.AddrPort
	RTT       time.Duration
	Truncated bool // the socket reported more bytes than the buffer held
}

// Prober runs request/reply exchanges.
type Prober struct {
	sockets   ports.UDPSocketFactory
	freePorts ports.FreePortFactory
	clock     ports.Clock
	random    ports.Random
	cfg       Config
}

// New creates a Prober. All collaborators are required.
func New(sockets ports.UDPSocketFactory, freePorts ports.FreePortFactory, clock ports.Clock, random ports.Random, cfg Config) *Prober {
	if !cfg.BindHost.IsValid() {
		cfg.BindHost = netip.IPv4Unspecified()
	}
	if cfg.RecvBuffer <= 0 {
		cfg.RecvBuffer = 1500
	}
	return &Prober{
		sockets:   sockets,
		freePorts: freePorts,
		clock:     clock,
		random:    random,
		cfg:       cfg,
	}
}

// Probe sends payload to dest and returns the first reply. An empty payload
// is replaced by a random nonce of NonceSize bytes.
func (p *Prober) Probe(dest netip.AddrPort, payload []byte) (*Result, error) {
	if len(payload) == 0 {
		payload = make([]byte, NonceSize)
		if _, err := p.random.Read(payload); err != nil {
			return nil, fmt.Errorf("generate nonce: %w", err)
		}
	}

	port, err := p.freePorts.FreePort()
	if err != nil {
		return nil, fmt.Errorf("allocate local port: %w", err)
	}

	local := netip.AddrPortFrom(p.cfg.BindHost, port)
	sock, err := p.sockets.Bind(local)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", local, err)
	}
	defer sock.Close()

	if err := sock.SetReadTimeout(p.cfg.ReadTimeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	start := p.clock.Now()
	n, err := sock.SendTo(payload, dest)
	if err != nil {
		return nil, fmt.Errorf("send to %s: %w", dest, err)
	}
	if n < len(payload) {
		return nil, fmt.Errorf("%w: sent %d of %d bytes", ErrShortWrite, n, len(payload))
	}

	buf := make([]byte, p.cfg.RecvBuffer)
	n, from, err := sock.RecvFrom(buf)
	if err != nil {
		return nil, fmt.Errorf("receive from %s: %w", dest, err)
	}
	rtt := p.clock.Now().Sub(start)

	if from != dest {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedSender, from, dest)
	}

	return &Result{
		Local:     local,
		Sent:      payload,
		Reply:     append([]byte(nil), buf[:min(n, len(buf))]...),
		From:      from,
		RTT:       rtt,
		Truncated: n > len(buf),
	}, nil
}
