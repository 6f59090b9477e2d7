// File: resolver/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint URI parsing: scheme://host:port triples for media transports.

package resolver

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// EndpointURI identifies a remote media endpoint before resolution.
type EndpointURI struct {
	Scheme string
	Host   string
	Port   int
}

var (
	// ErrInvalidURI indicates the endpoint URI could not be parsed.
	ErrInvalidURI = errors.New("invalid endpoint uri")

	// ErrUnknownScheme indicates an endpoint scheme this resolver does not
	// serve.
	ErrUnknownScheme = errors.New("unknown endpoint scheme")
)

// defaultPorts maps schemes to their well-known ports. Schemes absent here
// require an explicit port in the URI.
var defaultPorts = map[string]int{
	"rtsp": 554,
}

var knownSchemes = map[string]struct{}{
	"rtp":  {},
	"rtcp": {},
	"rtsp": {},
}

// ParseEndpointURI parses "scheme://host:port". The host may be a literal
// IP (including bracketed IPv6) or a DNS name. The port may be omitted
// only for schemes with a well-known default.
func ParseEndpointURI(raw string) (*EndpointURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURI, raw, err)
	}
	if _, ok := knownSchemes[u.Scheme]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidURI, raw)
	}

	port := defaultPorts[u.Scheme]
	if ps := u.Port(); ps != "" {
		port, err = strconv.Atoi(ps)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("%w: %q: bad port %q", ErrInvalidURI, raw, ps)
		}
	} else if port == 0 {
		return nil, fmt.Errorf("%w: %q: scheme %q requires an explicit port", ErrInvalidURI, raw, u.Scheme)
	}

	return &EndpointURI{Scheme: u.Scheme, Host: host, Port: port}, nil
}

func (u *EndpointURI) String() string {
	return u.Scheme + "://" + net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}
