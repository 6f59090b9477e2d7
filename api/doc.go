// Package api
// Author: momentics <momentics@gmail.com>
//
// Capability contracts for hioload-netio.
//
// The event loop core treats its collaborators as opaque capability
// providers: ports (UDP receivers and senders), the address resolver, and
// the packet pool. Every contract here is single-loop-goroutine disciplined:
// Open, AsyncClose and AsyncResolve are only ever invoked from the loop
// goroutine that owns the port registry, while completion entry points
// (CloseHandler, ResolveHandler) may fire later from a provider goroutine.
package api
