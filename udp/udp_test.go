// File: udp/udp_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package udp

import (
	"bytes"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-netio/api"
	"github.com/momentics/hioload-netio/pool"
)

// recordingCloser counts HandleClosed notifications.
type recordingCloser struct {
	closed atomic.Int32
	ch     chan api.Port
}

func newRecordingCloser() *recordingCloser {
	return &recordingCloser{ch: make(chan api.Port, 4)}
}

func (c *recordingCloser) HandleClosed(port api.Port) {
	c.closed.Add(1)
	c.ch <- port
}

type packetSink chan *api.Packet

func (s packetSink) WritePacket(pkt *api.Packet) error {
	select {
	case s <- pkt:
		return nil
	default:
		return api.ErrSendQueueFull
	}
}

func loopback() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)}
}

func TestReceiverPort_RoundTrip(t *testing.T) {
	closer := newRecordingCloser()
	sink := make(packetSink, 4)
	p := NewReceiverPort(&ReceiverConfig{Bind: loopback()}, sink, closer, pool.NewPacketPool(0), nil)

	if err := p.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if p.Address() == nil || p.Address().Port == 0 {
		t.Fatalf("bad bound address: %v", p.Address())
	}

	peer, err := net.DialUDP("udp", nil, p.Address())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer peer.Close()

	payload := []byte("hello receiver")
	if _, err := peer.Write(payload); err != nil {
		t.Fatalf("peer write failed: %v", err)
	}

	select {
	case pkt := <-sink:
		if !bytes.Equal(pkt.Data, payload) {
			t.Fatalf("payload mismatch: %q", pkt.Data)
		}
		if pkt.Src == nil {
			t.Fatal("source address not stamped")
		}
		if pkt.Dst.Port != p.Address().Port {
			t.Fatalf("destination mismatch: %v", pkt.Dst)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("datagram not delivered")
	}

	if !p.AsyncClose() {
		t.Fatal("close of an opened receiver must be asynchronous")
	}
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit")
	}
	select {
	case <-closer.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("close notification missing")
	}
	if got := closer.closed.Load(); got != 1 {
		t.Fatalf("expected exactly one close notification, got %d", got)
	}
}

func TestReceiverPort_NeverOpenedClosesSynchronously(t *testing.T) {
	closer := newRecordingCloser()
	p := NewReceiverPort(&ReceiverConfig{Bind: loopback()}, make(packetSink, 1), closer, pool.NewPacketPool(0), nil)

	if p.AsyncClose() {
		t.Fatal("close of a never-opened receiver must be synchronous")
	}
	if got := closer.closed.Load(); got != 0 {
		t.Fatalf("unexpected close notification: %d", got)
	}
}

func TestReceiverPort_DoubleAsyncClose(t *testing.T) {
	closer := newRecordingCloser()
	p := NewReceiverPort(&ReceiverConfig{Bind: loopback()}, make(packetSink, 1), closer, pool.NewPacketPool(0), nil)
	if err := p.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if !p.AsyncClose() || !p.AsyncClose() {
		t.Fatal("both close calls must report asynchronous teardown")
	}
	<-p.Done()

	// Give a hypothetical second notification time to fire.
	time.Sleep(50 * time.Millisecond)
	if got := closer.closed.Load(); got != 1 {
		t.Fatalf("expected exactly one close notification, got %d", got)
	}
}

func TestSenderPort_DeliversAndFlushesOnClose(t *testing.T) {
	dest, err := net.ListenUDP("udp", loopback())
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer dest.Close()
	destAddr := dest.LocalAddr().(*net.UDPAddr)

	closer := newRecordingCloser()
	p := NewSenderPort(&SenderConfig{Bind: loopback()}, closer, pool.NewPacketPool(0), nil)
	if err := p.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	const datagrams = 8
	for i := 0; i < datagrams; i++ {
		pkt := &api.Packet{Data: []byte{byte(i)}, Dst: destAddr}
		if err := p.WritePacket(pkt); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if !p.AsyncClose() {
		t.Fatal("close of an opened sender must be asynchronous")
	}
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("write loop did not exit")
	}

	_ = dest.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	for i := 0; i < datagrams; i++ {
		if _, _, err := dest.ReadFromUDP(buf); err != nil {
			t.Fatalf("datagram %d not flushed: %v", i, err)
		}
	}

	if got := closer.closed.Load(); got != 1 {
		t.Fatalf("expected exactly one close notification, got %d", got)
	}
}

func TestSenderPort_WriteAfterCloseFails(t *testing.T) {
	closer := newRecordingCloser()
	p := NewSenderPort(&SenderConfig{Bind: loopback()}, closer, pool.NewPacketPool(0), nil)
	if err := p.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	p.AsyncClose()
	<-p.Done()

	err := p.WritePacket(&api.Packet{Data: []byte("late"), Dst: loopback()})
	if !errors.Is(err, api.ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestSenderPort_RejectsWithoutDestination(t *testing.T) {
	p := NewSenderPort(&SenderConfig{Bind: loopback()}, newRecordingCloser(), pool.NewPacketPool(0), nil)
	if err := p.WritePacket(&api.Packet{Data: []byte("x")}); err == nil {
		t.Fatal("expected error for packet without destination")
	}
}

func TestSenderPort_QueueFull(t *testing.T) {
	// Not opened: nothing drains the outbox.
	p := NewSenderPort(&SenderConfig{Bind: loopback(), QueueLen: 1}, newRecordingCloser(), pool.NewPacketPool(0), nil)

	if err := p.WritePacket(&api.Packet{Data: []byte("a"), Dst: loopback()}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	err := p.WritePacket(&api.Packet{Data: []byte("b"), Dst: loopback()})
	if !errors.Is(err, api.ErrSendQueueFull) {
		t.Fatalf("expected ErrSendQueueFull, got %v", err)
	}
}
