// File: udp/sockopt_stub.go
//go:build !unix

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-unix platforms bind with stack defaults.

package udp

import "syscall"

func sockoptControl(reuseAddr, broadcast bool) func(network, address string, c syscall.RawConn) error {
	return nil
}
