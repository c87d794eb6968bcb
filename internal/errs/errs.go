// package errs holds the error taxonomy shared by every layer of the client.
//
// Errors are built from a small set of sentinels, each bound to a [Kind].
// A sentinel describes what went wrong, the wrapped cause (if any) tells why:
//
//	errs.ErrUnexpectedEOF.Wrap("read body", io.ErrUnexpectedEOF)
//
// both of them can be matched with [errors.Is].
package errs

import (
	"errors"
	"strconv"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindParse
	KindConnect
	KindTLS
	KindWrite
	KindRead
	KindProtocol
	KindState
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindParse:    "parse",
	KindConnect:  "connect",
	KindTLS:      "tls",
	KindWrite:    "write",
	KindRead:     "read",
	KindProtocol: "protocol violation",
	KindState:    "state",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Sentinel is a comparable reason. It is never returned by itself,
// only as the Reason of an *[Error].
type Sentinel struct {
	kind Kind
	msg  string
}

func (s *Sentinel) Error() string { return s.msg }

func (s *Sentinel) Kind() Kind { return s.kind }

// New creates an error for operation op without an underlying cause.
func (s *Sentinel) New(op string) *Error {
	return &Error{Kind: s.kind, Op: op, Reason: s}
}

// Wrap creates an error for operation op caused by err.
func (s *Sentinel) Wrap(op string, err error) *Error {
	return &Error{Kind: s.kind, Op: op, Reason: s, Err: err}
}

func reg(kind Kind, msg string) *Sentinel {
	return &Sentinel{kind, msg}
}

type Error struct {
	Kind   Kind
	Op     string
	Reason *Sentinel
	Err    error
}

func (e *Error) Error() string {
	msg := "fetch: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Reason.msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

var (
	ErrInvalidURL    = reg(KindParse, "invalid url")
	ErrInvalidScheme = reg(KindParse, "invalid scheme")
	ErrMissingHost   = reg(KindParse, "missing host")
	ErrInvalidHost   = reg(KindParse, "invalid host")
	ErrInvalidPort   = reg(KindParse, "invalid port")
	ErrInvalidMethod = reg(KindParse, "invalid method")
	ErrInvalidHeader = reg(KindParse, "invalid header field")
	ErrInvalidBody   = reg(KindParse, "unsupported body type")

	ErrMalformedStatusLine      = reg(KindParse, "malformed status line")
	ErrMalformedHeader          = reg(KindParse, "malformed header line")
	ErrUnsupportedHeaderFolding = reg(KindParse, "obsolete header line folding is not supported")
	ErrHeaderTooLarge           = reg(KindParse, "response head too large")

	ErrTimeout    = reg(KindConnect, "connection timed out")
	ErrRefused    = reg(KindConnect, "connection refused")
	ErrDNSFailure = reg(KindConnect, "name resolution failed")
	ErrConnectIO  = reg(KindConnect, "connection failed")
	// ErrProxyConnect is matched by every *[ProxyConnectError].
	ErrProxyConnect = reg(KindConnect, "proxy refused tunnel")

	ErrCertificateInvalid = reg(KindTLS, "certificate invalid")
	ErrHostnameMismatch   = reg(KindTLS, "certificate hostname mismatch")
	ErrHandshakeTimeout   = reg(KindTLS, "handshake timed out")
	ErrTLSProtocol        = reg(KindTLS, "protocol error")

	ErrWriteIO    = reg(KindWrite, "write failed")
	ErrBodySource = reg(KindWrite, "reading request body failed")
	ErrReadIO     = reg(KindRead, "read failed")

	ErrBodyLengthMismatch   = reg(KindProtocol, "request body length mismatch")
	ErrUnexpectedEOF        = reg(KindProtocol, "unexpected end of body")
	ErrInvalidChunkSize     = reg(KindProtocol, "invalid chunk size")
	ErrMalformedChunk       = reg(KindProtocol, "malformed chunked encoding")
	ErrLineTooLong          = reg(KindProtocol, "chunk line too long")
	ErrInvalidContentLength = reg(KindProtocol, "invalid content-length")
	ErrBodyTooLarge         = reg(KindProtocol, "body exceeds limit")

	ErrAlreadySent  = reg(KindState, "request already sent")
	ErrNotStreaming = reg(KindState, "response body is not streaming")
	ErrBodyClosed   = reg(KindState, "response body closed")
)

// ProxyConnectError reports a non-2xx answer to a CONNECT request.
type ProxyConnectError struct {
	StatusCode int
	Status     string
}

func (e *ProxyConnectError) Error() string {
	return "fetch: proxy connect: " + ErrProxyConnect.msg + ", status: " + e.Status
}

func (e *ProxyConnectError) Unwrap() error {
	return ErrProxyConnect
}

// KindOf reports the kind of the first taxonomy error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var pe *ProxyConnectError
	if errors.As(err, &pe) {
		return KindConnect
	}
	var s *Sentinel
	if errors.As(err, &s) {
		return s.kind
	}
	return KindUnknown
}

// Is is a shortcut for KindOf(err) == kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
