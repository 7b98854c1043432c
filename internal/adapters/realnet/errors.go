package realnet

import (
	"errors"
	"net"
	"os"
)

var (
	// ErrNegativeTimeout is returned by SetReadTimeout for durations below zero.
	ErrNegativeTimeout = errors.New("realnet: negative read timeout")

	// ErrInvalidAddress is returned by Bind for the zero netip.AddrPort.
	ErrInvalidAddress = errors.New("realnet: invalid bind address")
)

// IsTimeout reports whether err is a read timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsAddrInUse reports whether err is a bind failure because the address is taken.
func IsAddrInUse(err error) bool {
	return err != nil && errors.Is(err, errAddrInUse)
}
