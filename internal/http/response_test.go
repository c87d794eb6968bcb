package http

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/errs"
)

func streaming(body io.Reader) (*Response, *int) {
	released := 0
	resp := &Response{Framing: FramingClose, ContentLength: -1}
	resp.Attach(body, func() { released++ })
	return resp, &released
}

func TestResponseRecvUntilEOF(t *testing.T) {
	resp, released := streaming(iotest.HalfReader(strings.NewReader("hello world")))
	require.Equal(t, StateBodyStreaming, resp.State())

	var got []byte
	for {
		chunk, err := resp.Recv()
		got = append(got, chunk...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Equal(t, "hello world", string(got))
	require.Equal(t, StateDrained, resp.State())
	require.Equal(t, 1, *released)

	for i := 0; i < 3; i++ {
		chunk, err := resp.Recv()
		require.Nil(t, chunk)
		require.Equal(t, io.EOF, err)
	}
	require.NoError(t, resp.Close())
	require.Equal(t, StateDrained, resp.State())
	require.Equal(t, 1, *released)
}

func TestResponseDataWithEOF(t *testing.T) {
	resp, released := streaming(iotest.DataErrReader(strings.NewReader("hi")))
	chunk, err := resp.Recv()
	require.NoError(t, err)
	require.Equal(t, "hi", string(chunk))
	require.Equal(t, 1, *released)

	_, err = resp.Recv()
	require.Equal(t, io.EOF, err)
}

func TestResponseFailureIsTerminal(t *testing.T) {
	failure := errs.ErrUnexpectedEOF.Wrap("read body", io.ErrUnexpectedEOF)
	resp, released := streaming(io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(failure)))

	chunk, err := resp.Recv()
	require.NoError(t, err)
	require.Equal(t, "abc", string(chunk))

	_, err = resp.Recv()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	_, err = resp.Recv()
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
	require.Equal(t, StateDiscarded, resp.State())
	require.Equal(t, 1, *released)
}

func TestResponseCloseDiscards(t *testing.T) {
	resp, released := streaming(strings.NewReader("never read"))
	require.NoError(t, resp.Close())
	require.Equal(t, StateDiscarded, resp.State())
	require.Equal(t, 1, *released)
	require.NoError(t, resp.Close())
	require.Equal(t, 1, *released)

	_, err := resp.Recv()
	require.ErrorIs(t, err, errs.ErrBodyClosed)
}

func TestResponseNoBody(t *testing.T) {
	resp, released := streaming(nil)
	require.Equal(t, StateDrained, resp.State())
	require.Equal(t, 1, *released)
	b, err := resp.Bytes()
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestResponseNotStreaming(t *testing.T) {
	resp := &Response{}
	require.Equal(t, StateHeadRead, resp.State())
	_, err := resp.Recv()
	require.ErrorIs(t, err, errs.ErrNotStreaming)
}

func TestResponseReadAndBytes(t *testing.T) {
	resp, _ := streaming(strings.NewReader("0123456789"))
	p := make([]byte, 4)
	n, err := resp.Read(p)
	require.NoError(t, err)
	require.Equal(t, "0123", string(p[:n]))

	rest, err := resp.Bytes()
	require.NoError(t, err)
	require.Equal(t, "456789", string(rest))

	n, err = resp.Read(p)
	require.Zero(t, n)
	require.Equal(t, io.EOF, err)
}

func TestResponseJSON(t *testing.T) {
	resp, _ := streaming(iotest.OneByteReader(strings.NewReader(`{"name":"fetch","n":[1,2]}`)))
	var v struct {
		Name string `json:"name"`
		N    []int  `json:"n"`
	}
	require.NoError(t, resp.JSON(&v))
	require.Equal(t, "fetch", v.Name)
	require.Equal(t, []int{1, 2}, v.N)
}

type stuckReader struct{}

func (stuckReader) Read([]byte) (int, error) { return 0, nil }

func TestResponseNoProgress(t *testing.T) {
	resp, released := streaming(stuckReader{})
	_, err := resp.Recv()
	require.True(t, errors.Is(err, io.ErrNoProgress))
	require.Equal(t, 1, *released)
}
