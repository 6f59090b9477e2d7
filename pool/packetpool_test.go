// File: pool/packetpool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"net"
	"testing"
)

func TestPacketPool_GetResetsPacket(t *testing.T) {
	p := NewPacketPool(512)

	pkt := p.Get()
	if len(pkt.Data) != 512 || cap(pkt.Data) != 512 {
		t.Fatalf("expected full-capacity payload, got len=%d cap=%d", len(pkt.Data), cap(pkt.Data))
	}

	pkt.Data = pkt.Data[:10]
	pkt.Src = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1000}
	pkt.Dst = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2000}
	p.Put(pkt)

	got := p.Get()
	if len(got.Data) != 512 {
		t.Fatalf("recycled packet not resliced: len=%d", len(got.Data))
	}
	if got.Src != nil || got.Dst != nil {
		t.Fatalf("recycled packet kept addresses: src=%v dst=%v", got.Src, got.Dst)
	}
}

func TestPacketPool_DefaultSize(t *testing.T) {
	p := NewPacketPool(0)
	if p.PayloadSize() != DefaultPayloadSize {
		t.Fatalf("expected default payload size %d, got %d", DefaultPayloadSize, p.PayloadSize())
	}
}

func TestPacketPool_RejectsShrunkBuffers(t *testing.T) {
	p := NewPacketPool(256)
	pkt := p.Get()
	pkt.Data = make([]byte, 16)
	p.Put(pkt) // must not be recycled

	got := p.Get()
	if cap(got.Data) != 256 {
		t.Fatalf("pool recycled an undersized buffer: cap=%d", cap(got.Data))
	}
}
