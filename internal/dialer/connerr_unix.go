//go:build unix

package dialer

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isRefused(err error) bool {
	return errors.Is(err, unix.ECONNREFUSED)
}

func isTimedOut(err error) bool {
	return errors.Is(err, unix.ETIMEDOUT)
}
