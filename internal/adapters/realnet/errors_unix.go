//go:build unix

package realnet

import "golang.org/x/sys/unix"

const errAddrInUse = unix.EADDRINUSE
