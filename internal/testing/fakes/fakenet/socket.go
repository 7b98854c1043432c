package fakenet

import (
	"net/netip"
	"sync"
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

// RecvFromCall records a call to RecvFrom.
type RecvFromCall struct {
	BufLen int
}

// SendToCall records a call to SendTo. Data is a copy taken at call time.
type SendToCall struct {
	Data []byte
	Addr netip.AddrPort
}

// SetReadTimeoutCall records a call to SetReadTimeout.
type SetReadTimeoutCall struct {
	Timeout time.Duration
}

type recvResult struct {
	n    int
	from netip.AddrPort
	data []byte
	err  error
}

type sendResult struct {
	n   int
	err error
}

// Socket is a scripted ports.UDPSocket.
//
//	sent := fakenet.NewCallLog[fakenet.SendToCall]()
//	sock := fakenet.NewSocket().
//		SendToCalls(sent).
//		SendToResult(4, nil).
//		RecvFromResult(2, router, []byte{0, 128})
type Socket struct {
	recvFromCalls       *CallLog[RecvFromCall]
	sendToCalls         *CallLog[SendToCall]
	setReadTimeoutCalls *CallLog[SetReadTimeoutCall]

	recvFromResults       *queue[recvResult]
	sendToResults         *queue[sendResult]
	setReadTimeoutResults *queue[error]

	mu     sync.Mutex
	closes int
}

// NewSocket creates a Socket with empty scripts and its own call logs.
func NewSocket() *Socket {
	return &Socket{
		recvFromCalls:         NewCallLog[RecvFromCall](),
		sendToCalls:           NewCallLog[SendToCall](),
		setReadTimeoutCalls:   NewCallLog[SetReadTimeoutCall](),
		recvFromResults:       newQueue[recvResult]("Socket.RecvFrom"),
		sendToResults:         newQueue[sendResult]("Socket.SendTo"),
		setReadTimeoutResults: newQueue[error]("Socket.SetReadTimeout"),
	}
}

// RecvFromCalls makes the socket record RecvFrom calls into log.
func (s *Socket) RecvFromCalls(log *CallLog[RecvFromCall]) *Socket {
	s.recvFromCalls = log
	return s
}

// RecvFromResult queues a successful RecvFrom. data is copied into the
// caller's buffer, n and from are returned as given, so n need not match
// len(data).
func (s *Socket) RecvFromResult(n int, from netip.AddrPort, data []byte) *Socket {
	s.recvFromResults.push(recvResult{n: n, from: from, data: append([]byte(nil), data...)})
	return s
}

// RecvFromError queues a failing RecvFrom. The caller's buffer is left alone.
func (s *Socket) RecvFromError(err error) *Socket {
	s.recvFromResults.push(recvResult{err: err})
	return s
}

// SendToCalls makes the socket record SendTo calls into log.
func (s *Socket) SendToCalls(log *CallLog[SendToCall]) *Socket {
	s.sendToCalls = log
	return s
}

// SendToResult queues the result of one SendTo call.
func (s *Socket) SendToResult(n int, err error) *Socket {
	s.sendToResults.push(sendResult{n: n, err: err})
	return s
}

// SetReadTimeoutCalls makes the socket record SetReadTimeout calls into log.
func (s *Socket) SetReadTimeoutCalls(log *CallLog[SetReadTimeoutCall]) *Socket {
	s.setReadTimeoutCalls = log
	return s
}

// SetReadTimeoutResult queues the result of one SetReadTimeout call.
func (s *Socket) SetReadTimeoutResult(err error) *Socket {
	s.setReadTimeoutResults.push(err)
	return s
}

// RecvFrom records the call and plays back the next scripted result.
func (s *Socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	s.recvFromCalls.record(RecvFromCall{BufLen: len(buf)})
	r := s.recvFromResults.pop()
	if r.err != nil {
		return 0, netip.AddrPort{}, r.err
	}
	copy(buf, r.data)
	return r.n, r.from, nil
}

// SendTo records a copy of buf and plays back the next scripted result.
func (s *Socket) SendTo(buf []byte, addr netip.AddrPort) (int, error) {
	s.sendToCalls.record(SendToCall{Data: append([]byte(nil), buf...), Addr: addr})
	r := s.sendToResults.pop()
	return r.n, r.err
}

// SetReadTimeout records the call and plays back the next scripted result.
func (s *Socket) SetReadTimeout(d time.Duration) error {
	s.setReadTimeoutCalls.record(SetReadTimeoutCall{Timeout: d})
	return s.setReadTimeoutResults.pop()
}

// Close is not scripted; it always succeeds and may be called repeatedly.
func (s *Socket) Close() error {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	return nil
}

// RecvFromLog returns the log RecvFrom records into.
func (s *Socket) RecvFromLog() *CallLog[RecvFromCall] { return s.recvFromCalls }

// SendToLog returns the log SendTo records into.
func (s *Socket) SendToLog() *CallLog[SendToCall] { return s.sendToCalls }

// SetReadTimeoutLog returns the log SetReadTimeout records into.
func (s *Socket) SetReadTimeoutLog() *CallLog[SetReadTimeoutCall] { return s.setReadTimeoutCalls }

// Closed reports whether Close has been called.
func (s *Socket) Closed() bool {
	return s.CloseCount() > 0
}

// CloseCount returns how many times Close has been called.
func (s *Socket) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Pending returns the number of scripted results not yet consumed.
func (s *Socket) Pending() int {
	return s.recvFromResults.pending() + s.sendToResults.pending() + s.setReadTimeoutResults.pending()
}

var _ ports.UDPSocket = (*Socket)(nil)
