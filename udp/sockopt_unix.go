// File: udp/sockopt_unix.go
//go:build unix

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket option control hooks applied through syscall.RawConn before bind.

package udp

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func sockoptControl(reuseAddr, broadcast bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var serr error
		err := c.Control(func(fd uintptr) {
			if reuseAddr {
				serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if serr != nil {
					return
				}
			}
			if broadcast {
				serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
			}
		})
		if err != nil {
			return err
		}
		return serr
	}
}
