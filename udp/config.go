// File: udp/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Port configuration structs. The loop writes the resolved bind address
// back into the config after a successful open.

package udp

import "net"

// ReceiverConfig configures a UDP receiver port.
type ReceiverConfig struct {
	// Bind is the requested local address. Port 0 selects an ephemeral
	// port; after a successful open the loop overwrites Bind with the
	// actually bound address. Nil binds to all interfaces.
	Bind *net.UDPAddr

	// ReuseAddr sets SO_REUSEADDR before binding.
	ReuseAddr bool
}

// SenderConfig configures a UDP sender port.
type SenderConfig struct {
	// Bind is the requested local address, updated like
	// ReceiverConfig.Bind.
	Bind *net.UDPAddr

	// Broadcast sets SO_BROADCAST so the sender may target broadcast
	// addresses.
	Broadcast bool

	// QueueLen bounds the outbound packet queue. Zero selects
	// DefaultSendQueueLen.
	QueueLen int
}

// DefaultSendQueueLen is the outbound queue bound used when
// SenderConfig.QueueLen is zero.
const DefaultSendQueueLen = 256

func bindString(addr *net.UDPAddr) string {
	if addr == nil {
		return ":0"
	}
	return addr.String()
}
