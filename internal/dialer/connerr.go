package dialer

import (
	"context"
	"errors"
	"net"

	"github.com/frankli0324/go-fetch/internal/errs"
)

// classifyConnect turns a dial or lookup failure into a connect error.
func classifyConnect(op string, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return errs.ErrTimeout.Wrap(op, err)
		}
		return errs.ErrDNSFailure.Wrap(op, err)
	case isRefused(err):
		return errs.ErrRefused.Wrap(op, err)
	case errors.Is(err, context.DeadlineExceeded), isTimedOut(err):
		return errs.ErrTimeout.Wrap(op, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return errs.ErrTimeout.Wrap(op, err)
	}
	return errs.ErrConnectIO.Wrap(op, err)
}
