// File: loop/eventloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EventLoop: the single-goroutine network I/O core with a synchronous,
// goroutine-safe control surface.

package loop

import (
	"errors"
	"net"
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/hioload-netio/api"
	"github.com/momentics/hioload-netio/pool"
	"github.com/momentics/hioload-netio/resolver"
	"github.com/momentics/hioload-netio/udp"
)

// PortHandle is an opaque identity token for a port tracked by the loop.
// It stays valid only while the port remains tracked.
type PortHandle api.Port

// ErrUnknownPort indicates a handle that is not tracked as open.
var ErrUnknownPort = errors.New("unknown port")

// loopState is the lifecycle of an EventLoop instance.
type loopState uint8

const (
	stateNotStarted loopState = iota
	stateRunning
	stateStopping
	stateStopped
)

// EventLoop owns one dedicated goroutine that drives all port and resolver
// operations. Any number of caller goroutines may use the control API
// concurrently; each call blocks until its task reaches a terminal state.
type EventLoop struct {
	mu         sync.Mutex
	taskDone   *sync.Cond // task state transitions
	portClosed *sync.Cond // closing-set removals

	tasks    *queue.Queue               // FIFO of *task
	open     map[api.Port]struct{}      // actively serving ports
	closing  map[api.Port]struct{}      // asynchronous teardown in flight
	resolves map[uint64]*task           // pending resolutions by token
	nextTok  uint64

	state   loopState
	started bool

	// Cross-goroutine wake signals. Capacity-1 channels with non-blocking
	// sends: repeated wakes coalesce, the loop re-checks shared state on
	// each wake.
	taskSem chan struct{}
	stopSem chan struct{}
	done    chan struct{}

	res             api.Resolver
	resolverFactory ResolverFactory
	packets         api.PacketPool
	log             *zap.Logger
}

// New creates an event loop and starts its goroutine. The returned loop is
// valid and running; Close stops the goroutine and tears down all ports.
func New(opts ...Option) (*EventLoop, error) {
	l := &EventLoop{
		tasks:    queue.New(),
		open:     make(map[api.Port]struct{}),
		closing:  make(map[api.Port]struct{}),
		resolves: make(map[uint64]*task),
		taskSem:  make(chan struct{}, 1),
		stopSem:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      zap.NewNop(),
	}
	l.taskDone = sync.NewCond(&l.mu)
	l.portClosed = sync.NewCond(&l.mu)

	for _, opt := range opts {
		opt(l)
	}
	if l.packets == nil {
		l.packets = pool.NewPacketPool(pool.DefaultPayloadSize)
	}
	if l.resolverFactory == nil {
		l.resolverFactory = func(h api.ResolveHandler) api.Resolver {
			return resolver.New(h, resolver.WithLogger(l.log))
		}
	}
	l.res = l.resolverFactory(l)
	if l.res == nil {
		return nil, errors.New("loop: resolver factory returned nil")
	}

	l.state = stateRunning
	l.started = true
	go l.run()
	return l, nil
}

// Valid reports whether the loop goroutine was started. Operations on an
// invalid loop panic.
func (l *EventLoop) Valid() bool {
	return l.started
}

// NumPorts returns the number of open ports.
func (l *EventLoop) NumPorts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.open)
}

// AddUDPReceiver opens a UDP receiver port for cfg, delivering inbound
// packets to writer. On success cfg.Bind is updated with the actually
// bound address. On failure the partially constructed port is fully torn
// down before the call returns.
func (l *EventLoop) AddUDPReceiver(cfg *udp.ReceiverConfig, writer api.PacketWriter) (PortHandle, error) {
	t := &task{kind: taskAddReceiver, recvConfig: cfg, writer: writer}
	l.runTask(t)

	if t.state == taskFailed {
		if t.port != nil {
			l.waitPortClosed(t.port)
		}
		return nil, t.err
	}
	return PortHandle(t.port), nil
}

// AddUDPSender opens a UDP sender port for cfg and returns its outbound
// packet writer. On success cfg.Bind is updated with the actually bound
// address.
func (l *EventLoop) AddUDPSender(cfg *udp.SenderConfig) (PortHandle, api.PacketWriter, error) {
	t := &task{kind: taskAddSender, sendConfig: cfg}
	l.runTask(t)

	if t.state == taskFailed {
		if t.port != nil {
			l.waitPortClosed(t.port)
		}
		return nil, nil, t.err
	}
	return PortHandle(t.port), t.writer, nil
}

// RemovePort removes an open port and blocks until its teardown is fully
// complete. Removing a handle that is not tracked as open is a caller bug
// and panics.
func (l *EventLoop) RemovePort(handle PortHandle) {
	if handle == nil {
		panic("loop: port handle is nil")
	}

	t := &task{kind: taskRemovePort, port: api.Port(handle)}
	l.runTask(t)

	if t.state == taskFailed {
		panic("loop: can't remove port " + t.port.String() + ": unknown port")
	}
	l.waitPortClosed(t.port)
}

// ResolveEndpointAddress resolves the endpoint URI to a socket address.
// Blocks until resolution completes, even when the resolver finishes
// asynchronously.
func (l *EventLoop) ResolveEndpointAddress(uri *resolver.EndpointURI) (*net.UDPAddr, error) {
	req := &api.ResolveRequest{Host: uri.Host, Port: uri.Port}
	t := &task{kind: taskResolve, resolve: req}
	l.runTask(t)

	if t.state != taskSucceeded {
		return nil, t.err
	}
	return req.Addr, nil
}

// Close stops the loop goroutine and joins it. All still-open ports are
// torn down through the asynchronous close path; the call returns only
// after every port completed teardown and the goroutine exited.
func (l *EventLoop) Close() error {
	if !l.started {
		return nil
	}

	select {
	case l.stopSem <- struct{}{}:
	default:
	}
	<-l.done

	if closer, ok := l.res.(interface{ Close() }); ok {
		closer.Close()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.open) != 0 || len(l.closing) != 0 {
		panic("loop: ports still tracked after shutdown")
	}
	return nil
}

// HandleClosed implements api.CloseHandler. Ports report asynchronous
// close completion here; duplicate or late notifications are no-ops.
func (l *EventLoop) HandleClosed(port api.Port) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.closing[port]; !ok {
		return
	}

	l.log.Debug("event loop: asynchronous close finished", zap.Stringer("port", port))
	delete(l.closing, port)
	l.portClosed.Broadcast()
}

// HandleResolved implements api.ResolveHandler. The resolver reports
// asynchronous resolution completion here; the owning task is located by
// the request's correlation token. Late completions for already-finalized
// tokens are no-ops.
func (l *EventLoop) HandleResolved(req *api.ResolveRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.resolves[req.Token]
	if !ok {
		return
	}
	delete(l.resolves, req.Token)

	if req.Success {
		t.state = taskSucceeded
	} else {
		t.state = taskFailed
		t.err = api.ErrResolveFailed
	}
	l.taskDone.Broadcast()
}

// run is the loop goroutine body: block on the wake signals, drain tasks,
// and on stop tear everything down before exiting.
func (l *EventLoop) run() {
	l.log.Debug("event loop: starting event loop")
	defer close(l.done)

	for {
		select {
		case <-l.taskSem:
			l.processTasks()
		case <-l.stopSem:
			l.handleStop()
			l.log.Debug("event loop: finishing event loop")
			return
		}
	}
}

// runTask appends t to the FIFO, wakes the loop goroutine and blocks until
// t reaches a terminal state. Panics if the loop is not running: submitting
// to a stopped loop is a contract violation, not a runtime condition.
func (l *EventLoop) runTask(t *task) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != stateRunning {
		panic("loop: can't use invalid loop")
	}

	l.tasks.Add(t)
	select {
	case l.taskSem <- struct{}{}:
	default:
	}

	for t.state == taskPending {
		l.taskDone.Wait()
	}
}

// processTasks drains the FIFO on the loop goroutine. Handlers run with
// the lock held; completion is broadcast once per drain, not per task.
// Safe because every waiter re-checks its own task's state.
func (l *EventLoop) processTasks() {
	l.mu.Lock()
	defer l.mu.Unlock()

	notify := false
	for l.tasks.Length() > 0 {
		t := l.tasks.Remove().(*task)
		t.state = l.executeTask(t)
		if t.state != taskPending {
			notify = true
		}
	}

	if notify {
		l.taskDone.Broadcast()
	}
}

func (l *EventLoop) executeTask(t *task) taskState {
	switch t.kind {
	case taskAddReceiver:
		return l.addUDPReceiver(t)
	case taskAddSender:
		return l.addUDPSender(t)
	case taskRemovePort:
		return l.removePort(t)
	case taskResolve:
		return l.resolveAddress(t)
	default:
		panic("loop: unknown task kind")
	}
}

func (l *EventLoop) addUDPReceiver(t *task) taskState {
	rp := udp.NewReceiverPort(t.recvConfig, t.writer, l, l.packets, l.log)
	t.port = rp

	if err := rp.Open(); err != nil {
		l.log.Error("event loop: can't add port: can't start receiver",
			zap.String("bind", bindLabel(t.recvConfig.Bind)), zap.Error(err))
		t.err = err
		l.asyncClosePort(rp)
		return taskFailed
	}

	t.recvConfig.Bind = rp.Address()
	l.open[rp] = struct{}{}
	return taskSucceeded
}

func (l *EventLoop) addUDPSender(t *task) taskState {
	sp := udp.NewSenderPort(t.sendConfig, l, l.packets, l.log)
	t.port = sp

	if err := sp.Open(); err != nil {
		l.log.Error("event loop: can't add port: can't start sender",
			zap.String("bind", bindLabel(t.sendConfig.Bind)), zap.Error(err))
		t.err = err
		l.asyncClosePort(sp)
		return taskFailed
	}

	t.writer = sp
	t.sendConfig.Bind = sp.Address()
	l.open[sp] = struct{}{}
	return taskSucceeded
}

func (l *EventLoop) removePort(t *task) taskState {
	if _, ok := l.open[t.port]; !ok {
		t.err = ErrUnknownPort
		return taskFailed
	}

	l.log.Debug("event loop: removing port", zap.Stringer("port", t.port))
	delete(l.open, t.port)
	l.asyncClosePort(t.port)
	return taskSucceeded
}

func (l *EventLoop) resolveAddress(t *task) taskState {
	tok := l.nextTok
	l.nextTok++
	t.resolve.Token = tok
	l.resolves[tok] = t

	if !l.res.AsyncResolve(t.resolve) {
		delete(l.resolves, tok)
		if t.resolve.Success {
			return taskSucceeded
		}
		t.err = api.ErrResolveFailed
		return taskFailed
	}

	// Resolution continues in the background; HandleResolved finalizes
	// the task by token.
	return taskPending
}

// asyncClosePort routes a port into the closing set when its close is
// asynchronous. Ports that close synchronously need no further tracking.
// Lock must be held.
func (l *EventLoop) asyncClosePort(port api.Port) {
	if !port.AsyncClose() {
		return
	}
	l.closing[port] = struct{}{}
}

// waitPortClosed blocks until the port leaves the closing set.
func (l *EventLoop) waitPortClosed(port api.Port) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		if _, ok := l.closing[port]; !ok {
			return
		}
		l.portClosed.Wait()
	}
}

// handleStop runs on the loop goroutine when the stop signal fires: move
// every open port into the closing set, fail whatever work is still
// queued so no caller stays blocked, then wait for all closes to finish.
func (l *EventLoop) handleStop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = stateStopping

	for port := range l.open {
		delete(l.open, port)
		l.asyncClosePort(port)
	}

	notify := false
	for l.tasks.Length() > 0 {
		t := l.tasks.Remove().(*task)
		t.state = taskFailed
		t.err = api.ErrLoopStopping
		notify = true
	}
	for tok, t := range l.resolves {
		delete(l.resolves, tok)
		t.state = taskFailed
		t.err = api.ErrLoopStopping
		notify = true
	}
	if notify {
		l.taskDone.Broadcast()
	}

	for len(l.closing) > 0 {
		l.portClosed.Wait()
	}

	l.state = stateStopped
}

func bindLabel(addr *net.UDPAddr) string {
	if addr == nil {
		return ":0"
	}
	return addr.String()
}
