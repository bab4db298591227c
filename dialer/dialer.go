// Package dialer implements the "peer-source" collaborator: something that
// delivers an opened stream socket. Peer discovery itself is out of scope;
// this is a thin net.Dialer wrapper over a caller-supplied address.
package dialer

import (
	"context"
	"net"
	"time"
)

// Dialer opens TCP connections to Bitcoin-protocol peers.
type Dialer struct {
	d net.Dialer
}

// New returns a Dialer with the given connect timeout.
func New(timeout time.Duration) *Dialer {
	return &Dialer{d: net.Dialer{Timeout: timeout}}
}

// Dial connects to addr ("host:port"), respecting ctx cancellation.
func (d *Dialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	return d.d.DialContext(ctx, "tcp", addr)
}
