// File: api/resolve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Address resolution contract and request correlation.

package api

import "net"

// ResolveRequest carries one endpoint address resolution. Token correlates
// the request with the loop-side task that started it; the resolver treats
// it as opaque and hands it back unchanged.
type ResolveRequest struct {
	// Host is a literal IP address or a DNS name.
	Host string

	// Port is the endpoint port to combine with the resolved IP.
	Port int

	// Addr receives the resolved address on success.
	Addr *net.UDPAddr

	// Success reports the outcome once the request is complete.
	Success bool

	// Token is the loop-assigned correlation id. Opaque to resolvers.
	Token uint64
}

// Resolver resolves endpoint addresses on behalf of the event loop.
type Resolver interface {
	// AsyncResolve starts resolving req. A false return means the request
	// completed synchronously with req.Success and req.Addr already set;
	// the ResolveHandler is not invoked. A true return means resolution
	// continues in the background and the resolver must invoke the
	// ResolveHandler exactly once for req, from a goroutine other than
	// the calling one.
	AsyncResolve(req *ResolveRequest) bool
}

// ResolveHandler receives asynchronous resolution completions. Implemented
// by the event loop.
type ResolveHandler interface {
	// HandleResolved finalizes the task correlated with req.Token. Late
	// completions for already-finalized tokens are no-ops.
	HandleResolved(req *ResolveRequest)
}
