// File: api/port.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Port capability contract shared by all concrete endpoint variants.

package api

import "net"

// Port represents one network endpoint tracked by the event loop.
//
// A port moves through four stages: not yet registered, open, closing,
// fully removed. The loop tracks only membership and identity; socket
// internals belong to the implementation and are never touched off the
// loop goroutine.
type Port interface {
	// Open binds the endpoint and starts serving it. Called exactly once,
	// from the loop goroutine.
	Open() error

	// Address returns the resolved local address. Valid after a successful
	// Open.
	Address() *net.UDPAddr

	// AsyncClose initiates teardown. It returns true when the close
	// completes asynchronously; the port must then invoke its CloseHandler
	// exactly once when teardown finishes. A false return means the port
	// needed no asynchronous work and is already fully closed.
	AsyncClose() bool

	// String renders the port for log output.
	String() string
}

// CloseHandler receives asynchronous close completions. Implemented by the
// event loop; invoked by port implementations from their own goroutines.
type CloseHandler interface {
	// HandleClosed reports that the port finished its asynchronous close.
	// Must be idempotent: duplicate or late notifications are no-ops.
	HandleClosed(port Port)
}
