//go:build windows

package realnet

import "golang.org/x/sys/windows"

const errAddrInUse = windows.WSAEADDRINUSE
