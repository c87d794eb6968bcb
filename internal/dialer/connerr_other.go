//go:build !unix

package dialer

import "strings"

func isRefused(err error) bool {
	return strings.Contains(err.Error(), "refused")
}

// timeouts are only recognised through [net.Error] here.
func isTimedOut(error) bool {
	return false
}
