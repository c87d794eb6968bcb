package dialer

import (
	"context"
	"net/url"

	"golang.org/x/net/http/httpproxy"

	"github.com/frankli0324/go-fetch/internal/http"
)

// ProxyFromEnvironment returns a [CoreDialer.GetProxy] hook reading
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY (or their lowercase versions).
// The environment is read once, when ProxyFromEnvironment is called.
func ProxyFromEnvironment() func(ctx context.Context, r *http.Request) (string, error) {
	return ProxyFromConfig(httpproxy.FromEnvironment())
}

func ProxyFromConfig(cfg *httpproxy.Config) func(ctx context.Context, r *http.Request) (string, error) {
	proxyFor := cfg.ProxyFunc()
	return func(_ context.Context, r *http.Request) (string, error) {
		u, err := proxyFor(&url.URL{Scheme: r.URL.Scheme.String(), Host: r.URL.HostPort()})
		if err != nil || u == nil {
			return "", err
		}
		return u.String(), nil
	}
}
