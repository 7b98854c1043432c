package metrics

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/acolita/udpseam/internal/testing/fakes/fakenet"
)

var router = netip.MustParseAddrPort("192.168.1.1:5351")

func TestSocket_CountsTraffic(t *testing.T) {
	m := New(prometheus.NewRegistry())
	inner := fakenet.NewSocket().
		SendToResult(12, nil).
		SendToResult(3, nil).
		RecvFromResult(16, router, make([]byte, 16))
	sock := m.Socket(inner)

	sock.SendTo(make([]byte, 12), router)
	sock.SendTo(make([]byte, 4), router)
	sock.RecvFrom(make([]byte, 1100))

	if got := testutil.ToFloat64(m.datagramsSent); got != 2 {
		t.Errorf("datagrams sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.bytesSent); got != 15 {
		t.Errorf("bytes sent = %v, want 15", got)
	}
	if got := testutil.ToFloat64(m.shortWrites); got != 1 {
		t.Errorf("short writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.datagramsReceived); got != 1 {
		t.Errorf("datagrams received = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bytesReceived); got != 16 {
		t.Errorf("bytes received = %v, want 16", got)
	}
}

func TestSocket_CountsErrorsByOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	boom := errors.New("boom")
	sock := m.Socket(fakenet.NewSocket().
		RecvFromError(boom).
		SendToResult(0, boom).
		SetReadTimeoutResult(boom))

	if _, _, err := sock.RecvFrom(make([]byte, 1)); err != boom {
		t.Errorf("RecvFrom() error = %v", err)
	}
	if _, err := sock.SendTo([]byte{1}, router); err != boom {
		t.Errorf("SendTo() error = %v", err)
	}
	if err := sock.SetReadTimeout(time.Second); err != boom {
		t.Errorf("SetReadTimeout() error = %v", err)
	}

	for _, op := range []string{"recv", "send", "set_read_timeout"} {
		if got := testutil.ToFloat64(m.errors.WithLabelValues(op)); got != 1 {
			t.Errorf("errors{op=%q} = %v, want 1", op, got)
		}
	}
	if got := testutil.ToFloat64(m.datagramsSent); got != 0 {
		t.Errorf("datagrams sent = %v, want 0", got)
	}
}

func TestFactory_InstrumentsBoundSockets(t *testing.T) {
	m := New(prometheus.NewRegistry())
	inner := fakenet.NewSocket().SendToResult(1, nil)
	f := m.Factory(fakenet.NewSocketFactory().
		BindError(errors.New("address already in use")).
		BindResult(inner))

	if _, err := f.Bind(netip.MustParseAddrPort("0.0.0.0:5350")); err == nil {
		t.Fatal("first Bind() succeeded")
	}
	sock, err := f.Bind(netip.MustParseAddrPort("0.0.0.0:5351"))
	if err != nil {
		t.Fatalf("second Bind() error = %v", err)
	}
	sock.SendTo([]byte{1}, router)
	sock.Close()

	if got := testutil.ToFloat64(m.socketsBound); got != 1 {
		t.Errorf("sockets bound = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("bind")); got != 1 {
		t.Errorf("bind errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.datagramsSent); got != 1 {
		t.Errorf("datagrams sent = %v, want 1", got)
	}
	if !inner.Closed() {
		t.Error("Close did not reach the wrapped socket")
	}
}

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.errors.WithLabelValues("send")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) != 7 {
		t.Errorf("gathered %d metric families, want 7", len(families))
	}
}
