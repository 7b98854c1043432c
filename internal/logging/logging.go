// Package logging provides structured JSON logging and a logging decorator
// for the UDP socket ports.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// level backs every handler built by Setup, so SetLevel takes effect
// without rebuilding the logger.
var level = new(slog.LevelVar)

// ParseLevel maps a config level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs a JSON logger on stderr as the slog default.
func Setup(levelName string) {
	SetupWriter(os.Stderr, levelName)
}

// SetupWriter installs a JSON logger writing to w as the slog default.
func SetupWriter(w io.Writer, levelName string) {
	level.Set(ParseLevel(levelName))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SetLevel changes the level of the logger installed by Setup.
func SetLevel(levelName string) {
	level.Set(ParseLevel(levelName))
}

// hexDump renders at most maxLen bytes of data as space separated hex pairs.
func hexDump(data []byte, maxLen int) string {
	if len(data) > maxLen {
		data = data[:maxLen]
	}
	if len(data) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(data)*3 - 1)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(hexChar(c >> 4))
		b.WriteByte(hexChar(c & 0x0f))
	}
	return b.String()
}

func hexChar(nibble byte) byte {
	if nibble < 10 {
		return '0' + nibble
	}
	return 'a' + nibble - 10
}
