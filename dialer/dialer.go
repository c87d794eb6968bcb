package dialer

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
)

// Dialers are responsible for creating underlying streams that http requests could
// be written to and responses could be read from. for example, opening a raw TCP
// connection for HTTP/1.1 requests.
//
// Unlike [net/http.Transport], A Dialer MUST NOT hold active connection states,
// which means a Dialer must be able to be swapped out from a [Client] without
// pain. Like [net/http.Transport], it SHOULD hold the connection related configs
// like [ProxyConfig] or *[crypto/tls.Config].
type Dialer = dialer.Dialer

// CoreDialer is the default implementation of the [Dialer] interface. It would
// be used by a zero value [Client].
type CoreDialer = dialer.CoreDialer

// Conn is the connection handed out by *[CoreDialer]. It's closed on the first
// failed read or write and never reused.
type Conn = dialer.Conn

type ProxyConfig = dialer.ProxyConfig

// Transport is how a connection reaches the server: directly, through an
// http proxy, or over a unix socket.
type Transport = dialer.Transport
type TransportKind = dialer.TransportKind

const (
	TransportDirect     = dialer.TransportDirect
	TransportHTTPProxy  = dialer.TransportHTTPProxy
	TransportUnixSocket = dialer.TransportUnixSocket
)

// we need a dedicated resolver for two scenarios:
//
//  1. Resolve remote address locally in proxied requests
//  2. to customize the DNS server used for resolving hostname
//
// the standard library didn't provide a intuitive way of
// setting DNS server addresses since it only follows the
// system configuration (e.g. /etc/resolv.conf), leaving us only
// one option of using [net.Resolver.Dial] hook with a Go Resolver.
//
// this part of code tries to take advantage of that
// only option as far as possible to provide a relativly
// intuitive configuration API.
type ResolveConfig = dialer.ResolveConfig

// ProxyFromEnvironment returns a [CoreDialer.GetProxy] hook reading
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
var ProxyFromEnvironment = dialer.ProxyFromEnvironment

// ProxyFromConfig is like [ProxyFromEnvironment] with explicit settings.
var ProxyFromConfig = dialer.ProxyFromConfig
