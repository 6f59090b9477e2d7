// File: udp/sender.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UDP sender port. Outbound packets are queued by arbitrary pipeline
// goroutines and written to the socket by a single writer goroutine, so
// the socket itself stays single-goroutine disciplined.

package udp

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-netio/api"
)

// SenderPort implements api.Port and api.PacketWriter for outbound UDP
// traffic.
type SenderPort struct {
	cfg     *SenderConfig
	closer  api.CloseHandler
	packets api.PacketPool
	log     *zap.Logger

	conn    *net.UDPConn
	addr    *net.UDPAddr
	outbox  chan *api.Packet
	closeCh chan struct{}
	opened  bool
	closed  atomic.Bool
	done    chan struct{}
}

// NewSenderPort creates a sender port. The port is inert until Open.
func NewSenderPort(cfg *SenderConfig, closer api.CloseHandler, packets api.PacketPool,
	log *zap.Logger) *SenderPort {
	if log == nil {
		log = zap.NewNop()
	}
	queueLen := cfg.QueueLen
	if queueLen <= 0 {
		queueLen = DefaultSendQueueLen
	}
	return &SenderPort{
		cfg:     cfg,
		closer:  closer,
		packets: packets,
		log:     log,
		outbox:  make(chan *api.Packet, queueLen),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Open binds the socket and starts the write loop.
func (p *SenderPort) Open() error {
	lc := net.ListenConfig{Control: sockoptControl(false, p.cfg.Broadcast)}
	pc, err := lc.ListenPacket(context.Background(), "udp", bindString(p.cfg.Bind))
	if err != nil {
		return fmt.Errorf("udp sender: bind %s: %w", bindString(p.cfg.Bind), err)
	}
	p.conn = pc.(*net.UDPConn)
	p.addr = p.conn.LocalAddr().(*net.UDPAddr)
	p.opened = true

	p.log.Debug("udp sender: opened", zap.Stringer("addr", p.addr))
	go p.writeLoop()
	return nil
}

// Address returns the bound local address.
func (p *SenderPort) Address() *net.UDPAddr {
	return p.addr
}

// WritePacket queues pkt for transmission to pkt.Dst. Non-blocking: a
// saturated queue rejects the packet with api.ErrSendQueueFull. Packets
// are rejected with api.ErrPortClosed once teardown has been initiated.
func (p *SenderPort) WritePacket(pkt *api.Packet) error {
	if pkt.Dst == nil {
		return fmt.Errorf("udp sender: packet has no destination")
	}
	if p.closed.Load() {
		return api.ErrPortClosed
	}
	select {
	case p.outbox <- pkt:
		return nil
	default:
		return api.ErrSendQueueFull
	}
}

// AsyncClose initiates teardown. Queued packets are flushed before the
// socket closes; completion is reported through the CloseHandler.
func (p *SenderPort) AsyncClose() bool {
	if !p.opened {
		return false
	}
	if p.closed.CompareAndSwap(false, true) {
		p.log.Debug("udp sender: initiating asynchronous close", zap.Stringer("addr", p.addr))
		close(p.closeCh)
	}
	return true
}

// Done is closed once the write loop has exited. Exposed for tests.
func (p *SenderPort) Done() <-chan struct{} {
	return p.done
}

func (p *SenderPort) String() string {
	if p.addr == nil {
		return "udp send " + bindString(p.cfg.Bind)
	}
	return "udp send " + p.addr.String()
}

func (p *SenderPort) writeLoop() {
	defer func() {
		close(p.done)
		p.closer.HandleClosed(p)
	}()

	for {
		select {
		case pkt := <-p.outbox:
			p.transmit(pkt)
		case <-p.closeCh:
			p.flush()
			_ = p.conn.Close()
			return
		}
	}
}

// flush drains every packet queued before the close was initiated.
func (p *SenderPort) flush() {
	for {
		select {
		case pkt := <-p.outbox:
			p.transmit(pkt)
		default:
			return
		}
	}
}

func (p *SenderPort) transmit(pkt *api.Packet) {
	if _, err := p.conn.WriteToUDP(pkt.Data, pkt.Dst); err != nil {
		p.log.Warn("udp sender: write failed",
			zap.Stringer("addr", p.addr), zap.Stringer("dst", pkt.Dst), zap.Error(err))
	}
	p.packets.Put(pkt)
}
