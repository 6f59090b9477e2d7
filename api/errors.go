// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error values shared across hioload-netio packages.

package api

import "errors"

var (
	// ErrPortClosed indicates a write against a port whose teardown has
	// already been initiated.
	ErrPortClosed = errors.New("port is closed")

	// ErrSendQueueFull indicates the sender's outbound queue is saturated
	// and the packet was not accepted.
	ErrSendQueueFull = errors.New("send queue is full")

	// ErrResolveFailed indicates an endpoint address could not be resolved.
	ErrResolveFailed = errors.New("address resolution failed")

	// ErrLoopStopping indicates a task was abandoned because the event
	// loop began shutting down before the task could run.
	ErrLoopStopping = errors.New("event loop is stopping")
)
