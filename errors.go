package fetch

import "github.com/frankli0324/go-fetch/internal/errs"

// Error is the type of every error returned by this package, except
// [ProxyConnectError]. Match its Reason with [errors.Is]:
//
//	if errors.Is(err, fetch.ErrUnexpectedEOF) { ... }
type Error = errs.Error
type ErrorKind = errs.Kind
type ProxyConnectError = errs.ProxyConnectError

const (
	KindParse    = errs.KindParse
	KindConnect  = errs.KindConnect
	KindTLS      = errs.KindTLS
	KindWrite    = errs.KindWrite
	KindRead     = errs.KindRead
	KindProtocol = errs.KindProtocol
	KindState    = errs.KindState
)

var (
	ErrInvalidURL    = errs.ErrInvalidURL
	ErrInvalidScheme = errs.ErrInvalidScheme
	ErrMissingHost   = errs.ErrMissingHost
	ErrInvalidHost   = errs.ErrInvalidHost
	ErrInvalidPort   = errs.ErrInvalidPort
	ErrInvalidMethod = errs.ErrInvalidMethod
	ErrInvalidHeader = errs.ErrInvalidHeader
	ErrInvalidBody   = errs.ErrInvalidBody

	ErrMalformedStatusLine      = errs.ErrMalformedStatusLine
	ErrMalformedHeader          = errs.ErrMalformedHeader
	ErrUnsupportedHeaderFolding = errs.ErrUnsupportedHeaderFolding
	ErrHeaderTooLarge           = errs.ErrHeaderTooLarge

	ErrTimeout      = errs.ErrTimeout
	ErrRefused      = errs.ErrRefused
	ErrDNSFailure   = errs.ErrDNSFailure
	ErrConnectIO    = errs.ErrConnectIO
	ErrProxyConnect = errs.ErrProxyConnect

	ErrCertificateInvalid = errs.ErrCertificateInvalid
	ErrHostnameMismatch   = errs.ErrHostnameMismatch
	ErrHandshakeTimeout   = errs.ErrHandshakeTimeout
	ErrTLSProtocol        = errs.ErrTLSProtocol

	ErrWriteIO    = errs.ErrWriteIO
	ErrBodySource = errs.ErrBodySource
	ErrReadIO     = errs.ErrReadIO

	ErrBodyLengthMismatch   = errs.ErrBodyLengthMismatch
	ErrUnexpectedEOF        = errs.ErrUnexpectedEOF
	ErrInvalidChunkSize     = errs.ErrInvalidChunkSize
	ErrMalformedChunk       = errs.ErrMalformedChunk
	ErrLineTooLong          = errs.ErrLineTooLong
	ErrInvalidContentLength = errs.ErrInvalidContentLength
	ErrBodyTooLarge         = errs.ErrBodyTooLarge

	ErrAlreadySent  = errs.ErrAlreadySent
	ErrNotStreaming = errs.ErrNotStreaming
	ErrBodyClosed   = errs.ErrBodyClosed
)

// KindOf reports which stage of an exchange err comes from.
func KindOf(err error) ErrorKind {
	return errs.KindOf(err)
}
