package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/acolita/udpseam/internal/testing/fakes/fakenet"
)

var router = netip.MustParseAddrPort("192.168.1.1:5351")

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// parseLogLines decodes one JSON object per log line.
func parseLogLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line: %v\nraw: %s", err, line)
		}
		out = append(out, entry)
	}
	return out
}

func TestSocket_LogsSendAndPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	inner := fakenet.NewSocket().SendToResult(4, nil)
	sock := NewSocket(inner, newTestLogger(&buf), true)

	n, err := sock.SendTo([]byte{0, 0, 0xbe, 0xef}, router)
	if err != nil || n != 4 {
		t.Fatalf("SendTo() = (%d, %v), want (4, nil)", n, err)
	}

	entries := parseLogLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "udp send" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["data"] != "00 00 be ef" {
		t.Errorf("data = %v, want %q", entries[0]["data"], "00 00 be ef")
	}
	if entries[0]["to"] != router.String() {
		t.Errorf("to = %v", entries[0]["to"])
	}
	if inner.SendToLog().Len() != 1 {
		t.Error("SendTo did not reach the wrapped socket")
	}
}

func TestSocket_WarnsOnShortWrite(t *testing.T) {
	var buf bytes.Buffer
	sock := NewSocket(fakenet.NewSocket().SendToResult(2, nil), newTestLogger(&buf), false)

	n, err := sock.SendTo([]byte{1, 2, 3, 4}, router)
	if err != nil || n != 2 {
		t.Fatalf("SendTo() = (%d, %v), want (2, nil)", n, err)
	}

	entries := parseLogLines(t, &buf)
	if len(entries) != 2 || entries[0]["level"] != "WARN" {
		t.Fatalf("entries = %v, want a WARN first", entries)
	}
	if entries[0]["requested"] != float64(4) {
		t.Errorf("requested = %v, want 4", entries[0]["requested"])
	}
	if _, ok := entries[1]["data"]; ok {
		t.Error("data logged with dumping disabled")
	}
}

func TestSocket_LogsRecvOnlyReceivedBytes(t *testing.T) {
	var buf bytes.Buffer
	inner := fakenet.NewSocket().RecvFromResult(2, router, []byte{0x80, 0x01})
	sock := NewSocket(inner, newTestLogger(&buf), true)

	data := make([]byte, 16)
	n, from, err := sock.RecvFrom(data)
	if err != nil || n != 2 || from != router {
		t.Fatalf("RecvFrom() = (%d, %v, %v)", n, from, err)
	}

	entries := parseLogLines(t, &buf)
	if entries[0]["data"] != "80 01" {
		t.Errorf("data = %v, want %q", entries[0]["data"], "80 01")
	}
	if entries[0]["from"] != router.String() {
		t.Errorf("from = %v", entries[0]["from"])
	}
}

func TestSocket_LongDatagramDumpIsMarked(t *testing.T) {
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte{0xaa}, maxDumpBytes+1)
	sock := NewSocket(fakenet.NewSocket().SendToResult(len(payload), nil), newTestLogger(&buf), true)

	sock.SendTo(payload, router)

	data, _ := parseLogLines(t, &buf)[0]["data"].(string)
	if !strings.HasSuffix(data, "aa...") {
		t.Errorf("data = %q, want trailing ...", data)
	}
}

func TestSocket_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	timeout := errors.New("i/o timeout")
	inner := fakenet.NewSocket().
		RecvFromError(timeout).
		SetReadTimeoutResult(errors.New("invalid argument"))
	sock := NewSocket(inner, newTestLogger(&buf), false)

	if _, _, err := sock.RecvFrom(make([]byte, 4)); err != timeout {
		t.Errorf("RecvFrom() error = %v, want %v", err, timeout)
	}
	if err := sock.SetReadTimeout(-time.Second); err == nil {
		t.Error("SetReadTimeout() error = nil")
	}

	entries := parseLogLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["error"] != "i/o timeout" {
		t.Errorf("error = %v", entries[0]["error"])
	}
	if entries[1]["msg"] != "udp set read timeout failed" {
		t.Errorf("msg = %v", entries[1]["msg"])
	}
}

func TestSocket_CloseReachesWrapped(t *testing.T) {
	inner := fakenet.NewSocket()
	sock := NewSocket(inner, nil, false)
	if err := sock.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !inner.Closed() {
		t.Error("wrapped socket not closed")
	}
}

func TestSocketFactory_DecoratesBoundSockets(t *testing.T) {
	var buf bytes.Buffer
	inner := fakenet.NewSocket().SetReadTimeoutResult(nil)
	factory := NewSocketFactory(fakenet.NewSocketFactory().BindResult(inner), newTestLogger(&buf), false)

	local := netip.MustParseAddrPort("0.0.0.0:40000")
	sock, err := factory.Bind(local)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if _, ok := sock.(*Socket); !ok {
		t.Fatalf("Bind() returned %T, want *Socket", sock)
	}
	sock.SetReadTimeout(time.Second)

	entries := parseLogLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1]["local"] != local.String() {
		t.Errorf("local = %v, want %v", entries[1]["local"], local)
	}
}

func TestSocketFactory_BindFailure(t *testing.T) {
	var buf bytes.Buffer
	inUse := errors.New("address already in use")
	factory := NewSocketFactory(fakenet.NewSocketFactory().BindError(inUse), newTestLogger(&buf), false)

	sock, err := factory.Bind(netip.MustParseAddrPort("0.0.0.0:40000"))
	if err != inUse {
		t.Errorf("Bind() error = %v, want %v", err, inUse)
	}
	if sock != nil {
		t.Errorf("Bind() socket = %v, want nil", sock)
	}
	if entries := parseLogLines(t, &buf); entries[0]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entries[0]["level"])
	}
}
