// File: pool/packetpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// sync.Pool backed packet recycling with fixed payload capacity.

package pool

import (
	"sync"

	"github.com/momentics/hioload-netio/api"
)

// DefaultPayloadSize fits a UDP datagram on a standard MTU path with
// headroom for jumbo-ish media frames.
const DefaultPayloadSize = 2048

// PacketPool implements api.PacketPool over sync.Pool. All packets carry
// payload buffers of the same capacity.
type PacketPool struct {
	payloadSize int
	pool        sync.Pool
}

// NewPacketPool creates a pool producing packets with the given payload
// capacity. Non-positive sizes fall back to DefaultPayloadSize.
func NewPacketPool(payloadSize int) *PacketPool {
	if payloadSize <= 0 {
		payloadSize = DefaultPayloadSize
	}
	p := &PacketPool{payloadSize: payloadSize}
	p.pool.New = func() any {
		return &api.Packet{Data: make([]byte, payloadSize)}
	}
	return p
}

// PayloadSize returns the payload capacity of packets from this pool.
func (p *PacketPool) PayloadSize() int {
	return p.payloadSize
}

// Get returns a packet with Data sliced to full capacity and addresses
// cleared.
func (p *PacketPool) Get() *api.Packet {
	pkt := p.pool.Get().(*api.Packet)
	pkt.Data = pkt.Data[:cap(pkt.Data)]
	pkt.Src = nil
	pkt.Dst = nil
	return pkt
}

// Put returns a packet to the pool. Packets whose payload buffer was
// swapped out for a smaller one are dropped rather than recycled.
func (p *PacketPool) Put(pkt *api.Packet) {
	if pkt == nil || cap(pkt.Data) < p.payloadSize {
		return
	}
	p.pool.Put(pkt)
}
