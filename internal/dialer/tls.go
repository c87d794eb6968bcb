package dialer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"

	"github.com/frankli0324/go-fetch/internal/errs"
)

// upgradeTLS runs a client handshake over conn. ServerName is always the
// logical host, never the address actually dialed. conn is closed if the
// handshake fails, there is no fallback to plaintext.
func (d *CoreDialer) upgradeTLS(ctx context.Context, conn net.Conn, cfg *tls.Config, serverName string) (*tls.Conn, error) {
	config := cfg.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	config.ServerName = serverName
	config.NextProtos = []string{"http/1.1"}

	if d.TLSHandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.TLSHandshakeTimeout)
		defer cancel()
	}

	c := tls.Client(conn, config)
	if err := c.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, classifyTLS(err)
	}
	return c, nil
}

func classifyTLS(err error) error {
	const op = "tls handshake"

	var (
		hostErr      x509.HostnameError
		authorityErr x509.UnknownAuthorityError
		invalidErr   x509.CertificateInvalidError
		verifyErr    *tls.CertificateVerificationError
		netErr       net.Error
	)
	switch {
	case errors.As(err, &hostErr):
		return errs.ErrHostnameMismatch.Wrap(op, err)
	case errors.As(err, &authorityErr), errors.As(err, &invalidErr), errors.As(err, &verifyErr):
		return errs.ErrCertificateInvalid.Wrap(op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return errs.ErrHandshakeTimeout.Wrap(op, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return errs.ErrHandshakeTimeout.Wrap(op, err)
	}
	return errs.ErrTLSProtocol.Wrap(op, err)
}
