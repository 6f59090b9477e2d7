// File: udp/receiver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UDP receiver port. Reads datagrams on a dedicated goroutine and pushes
// them into the owner-supplied packet writer.

package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-netio/api"
)

// ReceiverPort implements api.Port for inbound UDP traffic.
type ReceiverPort struct {
	cfg     *ReceiverConfig
	writer  api.PacketWriter
	closer  api.CloseHandler
	packets api.PacketPool
	log     *zap.Logger

	conn   *net.UDPConn
	addr   *net.UDPAddr
	opened bool
	closed atomic.Bool
	done   chan struct{}
}

// NewReceiverPort creates a receiver port. The port is inert until Open.
func NewReceiverPort(cfg *ReceiverConfig, writer api.PacketWriter, closer api.CloseHandler,
	packets api.PacketPool, log *zap.Logger) *ReceiverPort {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiverPort{
		cfg:     cfg,
		writer:  writer,
		closer:  closer,
		packets: packets,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Open binds the socket and starts the read loop.
func (p *ReceiverPort) Open() error {
	lc := net.ListenConfig{Control: sockoptControl(p.cfg.ReuseAddr, false)}
	pc, err := lc.ListenPacket(context.Background(), "udp", bindString(p.cfg.Bind))
	if err != nil {
		return fmt.Errorf("udp receiver: bind %s: %w", bindString(p.cfg.Bind), err)
	}
	p.conn = pc.(*net.UDPConn)
	p.addr = p.conn.LocalAddr().(*net.UDPAddr)
	p.opened = true

	p.log.Debug("udp receiver: opened", zap.Stringer("addr", p.addr))
	go p.readLoop()
	return nil
}

// Address returns the bound local address.
func (p *ReceiverPort) Address() *net.UDPAddr {
	return p.addr
}

// AsyncClose initiates teardown. For an opened port the close completes
// asynchronously when the read loop exits; a never-opened port has nothing
// to tear down.
func (p *ReceiverPort) AsyncClose() bool {
	if !p.opened {
		return false
	}
	if p.closed.CompareAndSwap(false, true) {
		p.log.Debug("udp receiver: initiating asynchronous close", zap.Stringer("addr", p.addr))
		_ = p.conn.Close()
	}
	return true
}

// Done is closed once the read loop has exited. Exposed for tests.
func (p *ReceiverPort) Done() <-chan struct{} {
	return p.done
}

func (p *ReceiverPort) String() string {
	if p.addr == nil {
		return "udp recv " + bindString(p.cfg.Bind)
	}
	return "udp recv " + p.addr.String()
}

func (p *ReceiverPort) readLoop() {
	defer func() {
		close(p.done)
		p.closer.HandleClosed(p)
	}()

	for {
		pkt := p.packets.Get()
		n, src, err := p.conn.ReadFromUDP(pkt.Data)
		if err != nil {
			p.packets.Put(pkt)
			if p.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			p.log.Warn("udp receiver: read failed", zap.Stringer("addr", p.addr), zap.Error(err))
			continue
		}

		pkt.Data = pkt.Data[:n]
		pkt.Src = src
		pkt.Dst = p.addr
		if werr := p.writer.WritePacket(pkt); werr != nil {
			p.packets.Put(pkt)
			p.log.Warn("udp receiver: packet writer rejected datagram",
				zap.Stringer("addr", p.addr), zap.Error(werr))
		}
	}
}
