package dialer

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/errs"
	"github.com/frankli0324/go-fetch/internal/http"
)

// Dialers handle pretty much everything related to the actual connection,
// including setting a proxy for each request, setting resolvers, etc.
type Dialer = http.Dialer

type CoreDialer struct {
	ResolveConfig *ResolveConfig

	TLSConfig           *tls.Config // the config to use, ServerName is always overridden
	TLSHandshakeTimeout time.Duration
	DialTimeout         time.Duration

	// GetProxy returns the proxy url for a request, "" for no proxy. It's
	// only consulted when ProxyConfig doesn't name a proxy or a socket.
	GetProxy    func(ctx context.Context, r *http.Request) (string, error)
	ProxyConfig *ProxyConfig
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig:       d.ResolveConfig.Clone(),
		TLSConfig:           d.TLSConfig.Clone(),
		TLSHandshakeTimeout: d.TLSHandshakeTimeout,
		DialTimeout:         d.DialTimeout,
		GetProxy:            d.GetProxy,
		ProxyConfig:         d.ProxyConfig.Clone(),
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}

// Dial opens a connection for r, through the transport picked by
// [CoreDialer.ResolveTransport], and negotiates TLS for https urls.
// The returned stream belongs to r alone.
func (d *CoreDialer) Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error) {
	t, err := d.ResolveTransport(ctx, r.Request)
	if err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{"req_id": r.ID(), "transport": t.String()})
	logger.Debug("transport selected")

	var conn net.Conn
	switch t.Kind {
	case TransportUnixSocket:
		conn, err = d.dialUnix(ctx, t.SocketPath)
	case TransportHTTPProxy:
		conn, err = d.DialContextOverProxy(ctx, r.U, t.Proxy)
	case TransportDirect:
		conn, err = d.dialTCP(ctx, r.U.Host, r.U.Port, d.ResolveConfig)
	default:
		return nil, errs.ErrConnectIO.New("dial")
	}
	if err != nil {
		logger.WithError(err).Debug("dial failed")
		return nil, err
	}

	if r.U.Scheme == http.SchemeHTTPS {
		tc, err := d.upgradeTLS(ctx, conn, d.TLSConfig, r.U.Host)
		if err != nil {
			logger.WithError(err).Debug("tls handshake failed")
			return nil, err
		}
		logger.WithField("tls_version", tls.VersionName(tc.ConnectionState().Version)).Debug("tls negotiated")
		conn = tc
	}
	return newConn(conn, r.ID()), nil
}
