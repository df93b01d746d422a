package client

import (
	"context"
	"net"

	tls2 "github.com/refraction-networking/utls"
)

// dialTLSChrome establishes a TLS connection with a Chrome fingerprint via
// utls. Engines fingerprint the Go TLS stack and serve degraded or blocked
// pages to it.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
