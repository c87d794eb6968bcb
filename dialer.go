package fetch

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
)

type Dialer = dialer.Dialer
type CoreDialer = dialer.CoreDialer

type ProxyConfig = dialer.ProxyConfig
type ResolveConfig = dialer.ResolveConfig

// ProxyFromEnvironment is a [CoreDialer.GetProxy] hook honouring
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
var ProxyFromEnvironment = dialer.ProxyFromEnvironment
