// File: loop/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for EventLoop construction.

package loop

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-netio/api"
)

// ResolverFactory builds the resolver the loop delegates address
// resolution to. The factory receives the loop itself as the completion
// handler for asynchronous resolutions.
type ResolverFactory func(handler api.ResolveHandler) api.Resolver

// Option mutates EventLoop construction.
type Option func(*EventLoop)

// WithLogger installs a logger; the default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *EventLoop) { l.log = log }
}

// WithPacketPool installs the packet pool handed to ports; the default is
// a pool.NewPacketPool with the default payload size.
func WithPacketPool(packets api.PacketPool) Option {
	return func(l *EventLoop) { l.packets = packets }
}

// WithResolverFactory replaces the default DNS resolver, e.g. for tests.
func WithResolverFactory(factory ResolverFactory) Option {
	return func(l *EventLoop) { l.resolverFactory = factory }
}
