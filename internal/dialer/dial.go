package dialer

import (
	"context"
	"net"
	"strconv"

	"github.com/frankli0324/go-fetch/internal/http"
)

var zeroDialer net.Dialer

// dialTCP connects to host:port, honouring the static hosts, custom DNS
// server and network preference of cfg.
func (d *CoreDialer) dialTCP(ctx context.Context, host string, port uint16, cfg *ResolveConfig) (net.Conn, error) {
	// as of now net.Dialer could handle current DNS configurations
	p := strconv.Itoa(int(port))
	network, dialctx, dst := "tcp", ctx, net.JoinHostPort(host, p)
	dialer := &net.Dialer{Timeout: d.DialTimeout}

	if cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[host]; ok {
			dst = net.JoinHostPort(static, p)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = dnsServerCtx{dialctx, dns}
			dialer.Resolver = &customServerResolver
		}
	}

	conn, err := dialer.DialContext(dialctx, network, dst)
	if err != nil {
		return nil, classifyConnect("dial "+dst, err)
	}
	return conn, nil
}

// dialUnix connects to a unix domain socket, the request sent over it is
// still addressed to the host of its url.
func (d *CoreDialer) dialUnix(ctx context.Context, path string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: d.DialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, classifyConnect("dial unix "+path, err)
	}
	return conn, nil
}

func portOf(u *http.URL) string {
	return strconv.Itoa(int(u.Port))
}
