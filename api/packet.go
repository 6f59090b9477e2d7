// File: api/packet.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Datagram carrier and pooling contracts.

package api

import "net"

// Packet is a single datagram moving between ports and the pipeline.
// Data holds the payload, Src and Dst the wire addresses. Packets are
// obtained from a PacketPool; whoever consumes a packet returns it.
type Packet struct {
	Data []byte
	Src  *net.UDPAddr
	Dst  *net.UDPAddr
}

// PacketWriter consumes packets. Receivers push inbound datagrams into a
// writer supplied by the owner; senders expose a writer that queues
// outbound datagrams. WritePacket takes ownership of pkt on success.
type PacketWriter interface {
	WritePacket(pkt *Packet) error
}

// PacketPool recycles packets and their payload buffers.
type PacketPool interface {
	// Get returns a packet with Data sliced to its full payload capacity.
	Get() *Packet

	// Put returns a packet to the pool; the packet must not be used after.
	Put(pkt *Packet)
}
