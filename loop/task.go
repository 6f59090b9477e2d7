// File: loop/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The task protocol: one caller-owned request/response record per
// synchronous control call. The loop goroutine is the only mutator of a
// task after submission; callers observe the state under the loop lock.

package loop

import (
	"github.com/momentics/hioload-netio/api"
	"github.com/momentics/hioload-netio/udp"
)

type taskKind uint8

const (
	taskAddReceiver taskKind = iota
	taskAddSender
	taskRemovePort
	taskResolve
)

type taskState uint8

const (
	taskPending taskState = iota
	taskSucceeded
	taskFailed
)

// task is the tagged union carried through the FIFO. Exactly one of the
// kind-specific fields is populated, selected by kind.
type task struct {
	kind  taskKind
	state taskState

	// err carries the operational failure reported to the caller when
	// state is taskFailed.
	err error

	// taskAddReceiver
	recvConfig *udp.ReceiverConfig

	// taskAddSender
	sendConfig *udp.SenderConfig

	// writer is the inbound writer for taskAddReceiver, and the outbound
	// writer surfaced to the caller for taskAddSender.
	writer api.PacketWriter

	// port is the input for taskRemovePort and the output for the add
	// kinds (also set for a partially constructed port that failed, so
	// the caller can await its teardown).
	port api.Port

	// taskResolve
	resolve *api.ResolveRequest
}
