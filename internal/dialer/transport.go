package dialer

import (
	"context"

	"github.com/frankli0324/go-fetch/internal/http"
)

type TransportKind uint8

const (
	TransportDirect TransportKind = iota
	TransportHTTPProxy
	TransportUnixSocket
)

// Transport is how a connection reaches the server, decided once per
// connection. The request itself is always addressed to the logical host
// of its url, whatever the transport is.
type Transport struct {
	Kind       TransportKind
	Proxy      *http.URL // set for TransportHTTPProxy
	SocketPath string    // set for TransportUnixSocket
}

func (t Transport) String() string {
	switch t.Kind {
	case TransportHTTPProxy:
		return "proxy " + t.Proxy.Redacted()
	case TransportUnixSocket:
		return "unix " + t.SocketPath
	}
	return "direct"
}

// ResolveTransport picks the transport for r: a configured unix socket
// wins over a proxy, which wins over a direct connection.
func (d *CoreDialer) ResolveTransport(ctx context.Context, r *http.Request) (Transport, error) {
	if c := d.ProxyConfig; c != nil {
		if c.UnixSocket != "" {
			return Transport{Kind: TransportUnixSocket, SocketPath: c.UnixSocket}, nil
		}
		if c.Address != "" {
			return proxyTransport(c.Address)
		}
	}
	if d.GetProxy != nil {
		proxy, err := d.GetProxy(ctx, r)
		if err != nil {
			return Transport{}, err
		}
		if proxy != "" {
			return proxyTransport(proxy)
		}
	}
	return Transport{Kind: TransportDirect}, nil
}

func proxyTransport(raw string) (Transport, error) {
	u, err := http.ParseURL(raw)
	if err != nil {
		return Transport{}, err
	}
	return Transport{Kind: TransportHTTPProxy, Proxy: u}, nil
}
