package fakenet

import (
	"net/netip"

	"github.com/acolita/udpseam/internal/ports"
)

// BindCall records a call to SocketFactory.Bind.
type BindCall struct {
	Addr netip.AddrPort
}

type bindResult struct {
	sock *Socket
	err  error
}

// SocketFactory is a scripted ports.UDPSocketFactory. Each Bind hands out
// the next queued Socket or fails with the next queued error.
type SocketFactory struct {
	bindCalls   *CallLog[BindCall]
	bindResults *queue[bindResult]
}

// NewSocketFactory creates a SocketFactory with an empty script.
func NewSocketFactory() *SocketFactory {
	return &SocketFactory{
		bindCalls:   NewCallLog[BindCall](),
		bindResults: newQueue[bindResult]("SocketFactory.Bind"),
	}
}

// BindCalls makes the factory record Bind calls into log.
func (f *SocketFactory) BindCalls(log *CallLog[BindCall]) *SocketFactory {
	f.bindCalls = log
	return f
}

// BindResult queues a Bind that succeeds with sock.
func (f *SocketFactory) BindResult(sock *Socket) *SocketFactory {
	f.bindResults.push(bindResult{sock: sock})
	return f
}

// BindError queues a Bind that fails with err, for simulating refused binds.
func (f *SocketFactory) BindError(err error) *SocketFactory {
	f.bindResults.push(bindResult{err: err})
	return f
}

// Bind records addr and plays back the next scripted result.
func (f *SocketFactory) Bind(addr netip.AddrPort) (ports.UDPSocket, error) {
	f.bindCalls.record(BindCall{Addr: addr})
	r := f.bindResults.pop()
	if r.err != nil {
		return nil, r.err
	}
	return r.sock, nil
}

// BindLog returns the log Bind records into.
func (f *SocketFactory) BindLog() *CallLog[BindCall] { return f.bindCalls }

// Pending returns the number of scripted results not yet consumed.
func (f *SocketFactory) Pending() int { return f.bindResults.pending() }

// FreePortCall records a call to FreePortFactory.FreePort, which takes no arguments.
type FreePortCall struct{}

type freePortResult struct {
	port uint16
	err  error
}

// FreePortFactory is a scripted ports.FreePortFactory.
type FreePortFactory struct {
	freePortCalls   *CallLog[FreePortCall]
	freePortResults *queue[freePortResult]
}

// NewFreePortFactory creates a FreePortFactory with an empty script.
func NewFreePortFactory() *FreePortFactory {
	return &FreePortFactory{
		freePortCalls:   NewCallLog[FreePortCall](),
		freePortResults: newQueue[freePortResult]("FreePortFactory.FreePort"),
	}
}

// FreePortCalls makes the factory record FreePort calls into log.
func (f *FreePortFactory) FreePortCalls(log *CallLog[FreePortCall]) *FreePortFactory {
	f.freePortCalls = log
	return f
}

// FreePortResult queues a FreePort that returns port.
func (f *FreePortFactory) FreePortResult(port uint16) *FreePortFactory {
	f.freePortResults.push(freePortResult{port: port})
	return f
}

// FreePortError queues a FreePort that fails with err.
func (f *FreePortFactory) FreePortError(err error) *FreePortFactory {
	f.freePortResults.push(freePortResult{err: err})
	return f
}

// FreePort records the call and plays back the next scripted result.
func (f *FreePortFactory) FreePort() (uint16, error) {
	f.freePortCalls.record(FreePortCall{})
	r := f.freePortResults.pop()
	return r.port, r.err
}

// FreePortLog returns the log FreePort records into.
func (f *FreePortFactory) FreePortLog() *CallLog[FreePortCall] { return f.freePortCalls }

// Pending returns the number of scripted results not yet consumed.
func (f *FreePortFactory) Pending() int { return f.freePortResults.pending() }

var (
	_ ports.UDPSocketFactory = (*SocketFactory)(nil)
	_ ports.FreePortFactory  = (*FreePortFactory)(nil)
)
