package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	err := ErrUnexpectedEOF.Wrap("read body", io.ErrUnexpectedEOF)

	require.ErrorIs(t, err, ErrUnexpectedEOF)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.NotErrorIs(t, err, ErrInvalidChunkSize)
	require.Equal(t, KindProtocol, KindOf(err))
	require.EqualError(t, err, "fetch: read body: unexpected end of body: unexpected EOF")
}

func TestErrorWithoutCause(t *testing.T) {
	err := ErrAlreadySent.New("send")
	require.ErrorIs(t, err, ErrAlreadySent)
	require.True(t, Is(err, KindState))
	require.EqualError(t, err, "fetch: send: request already sent")
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrRefused.Wrap("dial", io.EOF))
	require.Equal(t, KindConnect, KindOf(err))
	require.Equal(t, KindUnknown, KindOf(io.EOF))
	require.False(t, Is(nil, KindUnknown))
}

func TestProxyConnectError(t *testing.T) {
	var err error = &ProxyConnectError{StatusCode: 502, Status: "502 Bad Gateway"}
	require.ErrorIs(t, err, ErrProxyConnect)
	require.Equal(t, KindConnect, KindOf(err))

	var pe *ProxyConnectError
	require.True(t, errors.As(fmt.Errorf("dial: %w", err), &pe))
	require.Equal(t, 502, pe.StatusCode)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "tls", KindTLS.String())
	require.Equal(t, "kind(42)", Kind(42).String())
}
