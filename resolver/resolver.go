// File: resolver/resolver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Asynchronous DNS resolver implementing api.Resolver.

package resolver

import (
	"context"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/momentics/hioload-netio/api"
)

// Resolver resolves endpoint hosts for the event loop. Literal IPs complete
// synchronously; DNS names are looked up on a background goroutine and
// finalized through the api.ResolveHandler, exactly once per request.
type Resolver struct {
	handler api.ResolveHandler
	res     *net.Resolver
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option mutates resolver construction.
type Option func(*Resolver)

// WithLogger installs a logger; the default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithNetResolver installs a custom net.Resolver, e.g. for tests.
func WithNetResolver(res *net.Resolver) Option {
	return func(r *Resolver) { r.res = res }
}

// New creates a resolver completing through handler.
func New(handler api.ResolveHandler, opts ...Option) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		handler: handler,
		res:     net.DefaultResolver,
		log:     zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AsyncResolve implements api.Resolver.
func (r *Resolver) AsyncResolve(req *api.ResolveRequest) bool {
	if ip := net.ParseIP(req.Host); ip != nil {
		req.Addr = &net.UDPAddr{IP: ip, Port: req.Port}
		req.Success = true
		return false
	}

	r.wg.Add(1)
	go r.lookup(req)
	return true
}

// Close cancels in-flight lookups and waits for their completions to be
// delivered. Late completions for canceled lookups report failure.
func (r *Resolver) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Resolver) lookup(req *api.ResolveRequest) {
	defer r.wg.Done()

	addrs, err := r.res.LookupIPAddr(r.ctx, req.Host)
	if err != nil || len(addrs) == 0 {
		r.log.Debug("resolver: lookup failed", zap.String("host", req.Host), zap.Error(err))
		req.Success = false
		r.handler.HandleResolved(req)
		return
	}

	req.Addr = &net.UDPAddr{IP: addrs[0].IP, Zone: addrs[0].Zone, Port: req.Port}
	req.Success = true
	r.handler.HandleResolved(req)
}
