package http

import (
	"net/netip"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/frankli0324/go-fetch/internal/errs"
)

type Scheme uint8

const (
	SchemeHTTP Scheme = iota
	SchemeHTTPS
)

func (s Scheme) String() string {
	if s == SchemeHTTPS {
		return "https"
	}
	return "http"
}

// DefaultPort is 80 for http and 443 for https.
func (s Scheme) DefaultPort() uint16 {
	if s == SchemeHTTPS {
		return 443
	}
	return 80
}

// URL is an absolute http(s) URL. Path and query are kept exactly as they
// were written, no percent-decoding is ever applied.
type URL struct {
	Scheme     Scheme
	User       string // raw userinfo, without the trailing '@'
	Host       string // IPv6 literals are stored without brackets
	Port       uint16
	Path       string
	RawQuery   string
	ForceQuery bool // a '?' with an empty query
}

// ParseURL parses an absolute http or https URL. The fragment, if any,
// is dropped since it's never sent over the wire.
func ParseURL(raw string) (*URL, error) {
	const op = "parse url"

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, errs.ErrInvalidScheme.New(op)
	}
	u := &URL{}
	switch {
	case strings.EqualFold(scheme, "http"):
		u.Scheme = SchemeHTTP
	case strings.EqualFold(scheme, "https"):
		u.Scheme = SchemeHTTPS
	default:
		return nil, errs.ErrInvalidScheme.New(op)
	}

	rest, _, _ = strings.Cut(rest, "#")
	authority := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority, rest = rest[:i], rest[i:]
	} else {
		rest = ""
	}

	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		u.User, authority = authority[:i], authority[i+1:]
	}
	if err := u.parseAuthority(authority); err != nil {
		return nil, err
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	if path == "" {
		path = "/"
	}
	if !validRequestTarget(path) || !validRequestTarget(query) {
		return nil, errs.ErrInvalidURL.New(op)
	}
	u.Path, u.RawQuery = path, query
	u.ForceQuery = hasQuery && query == ""
	return u, nil
}

func (u *URL) parseAuthority(authority string) error {
	const op = "parse url"

	host, port := authority, ""
	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return errs.ErrInvalidHost.New(op)
		}
		host, port = authority[1:end], authority[end+1:]
		if port != "" && port[0] != ':' {
			return errs.ErrInvalidHost.New(op)
		}
		addr, err := netip.ParseAddr(host)
		if err != nil || !addr.Is6() {
			return errs.ErrInvalidHost.Wrap(op, err)
		}
	} else if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		host, port = authority[:i], authority[i:]
		if strings.IndexByte(host, ':') >= 0 { // unbracketed IPv6
			return errs.ErrInvalidHost.New(op)
		}
	}
	if host == "" {
		return errs.ErrMissingHost.New(op)
	}
	port = strings.TrimPrefix(port, ":")

	u.Port = u.Scheme.DefaultPort()
	if port != "" {
		for i := 0; i < len(port); i++ {
			if port[i] < '0' || port[i] > '9' {
				return errs.ErrInvalidPort.New(op)
			}
		}
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil || p == 0 {
			return errs.ErrInvalidPort.Wrap(op, err)
		}
		u.Port = uint16(p)
	}

	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return errs.ErrInvalidHost.Wrap(op, err)
		}
		host = ascii
	}
	for i := 0; i < len(host); i++ {
		if host[i] <= ' ' || host[i] == 0x7f || host[i] == '/' || host[i] == '\\' {
			return errs.ErrInvalidHost.New(op)
		}
	}
	u.Host = strings.ToLower(host)
	return nil
}

// Hostname returns the host in its bracketed form for IPv6 literals.
func (u *URL) Hostname() string {
	if strings.IndexByte(u.Host, ':') >= 0 {
		return "[" + u.Host + "]"
	}
	return u.Host
}

// HostPort returns "host:port", always carrying the port.
func (u *URL) HostPort() string {
	return u.Hostname() + ":" + strconv.FormatUint(uint64(u.Port), 10)
}

// HostHeader returns the value of the Host header for this URL, the port
// is omitted when it's the default one of the scheme.
func (u *URL) HostHeader() string {
	if u.Port == u.Scheme.DefaultPort() {
		return u.Hostname()
	}
	return u.HostPort()
}

// RequestURI returns the origin-form request target, e.g. "/search?q=1".
func (u *URL) RequestURI() string {
	if u.RawQuery != "" || u.ForceQuery {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

func (u *URL) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme.String())
	b.WriteString("://")
	if u.User != "" {
		b.WriteString(u.User)
		b.WriteByte('@')
	}
	b.WriteString(u.HostHeader())
	b.WriteString(u.RequestURI())
	return b.String()
}

// Redacted is like String but hides the password of the userinfo.
func (u *URL) Redacted() string {
	name, _, ok := strings.Cut(u.User, ":")
	if !ok {
		return u.String()
	}
	c := *u
	c.User = name + ":xxxxx"
	return c.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func validRequestTarget(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] == 0x7f {
			return false
		}
	}
	return true
}
