package chunked_test

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/errs"
	"github.com/frankli0324/go-fetch/internal/transport/chunked"
)

func TestWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := chunked.NewWriter(buf)
	for _, s := range []string{"Hello, ", "", "world!", strings.Repeat("a", 26)} {
		n, err := w.Write([]byte(s))
		require.NoError(t, err)
		require.Equal(t, len(s), n)
	}
	require.NoError(t, w.Close())
	require.Equal(t, "7\r\nHello, \r\n6\r\nworld!\r\n1a\r\n"+strings.Repeat("a", 26)+"\r\n0\r\n\r\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	for _, sizes := range [][]int{{0}, {1}, {64 << 10}, {1, 0, 64 << 10, 1}} {
		buf := &bytes.Buffer{}
		w := chunked.NewWriter(buf)
		want := []byte{}
		for _, n := range sizes {
			c := make([]byte, n)
			for i := range c {
				c[i] = byte(i * 7)
			}
			_, err := w.Write(c)
			require.NoError(t, err)
			want = append(want, c...)
		}
		require.NoError(t, w.Close())
		buf.WriteString("NEXT")

		br := bufio.NewReader(iotest.HalfReader(buf))
		got, err := io.ReadAll(chunked.NewReader(br, 0))
		require.NoError(t, err)
		require.Equal(t, want, got)

		rest, err := io.ReadAll(br)
		require.NoError(t, err)
		require.Equal(t, "NEXT", string(rest))
	}
}

func TestReaderEOFIsSticky(t *testing.T) {
	r := chunked.NewReader(strings.NewReader("3\r\nabc\r\n0\r\n\r\n"), 0)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
	for i := 0; i < 3; i++ {
		n, err := r.Read(make([]byte, 8))
		require.Zero(t, n)
		require.Equal(t, io.EOF, err)
	}
}

func TestReaderTrailers(t *testing.T) {
	r := chunked.NewReader(strings.NewReader("1\r\nx\r\n0\r\nExpires: never\r\nX-Sum: 1\r\n\r\n"), 0)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "x", string(got))
}

func TestReaderErrors(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want error
	}{
		"EmptySize":        {"\r\n", errs.ErrInvalidChunkSize},
		"NotHex":           {"g\r\n", errs.ErrInvalidChunkSize},
		"Negative":         {"-1\r\nx\r\n", errs.ErrInvalidChunkSize},
		"Overflow":         {"10000000000000000\r\n", errs.ErrInvalidChunkSize},
		"MissingCRLF":      {"3\r\nabcX\r\n0\r\n\r\n", errs.ErrMalformedChunk},
		"BareLF":           {"3\nabc\r\n0\r\n\r\n", errs.ErrMalformedChunk},
		"TruncatedData":    {"5\r\nab", errs.ErrUnexpectedEOF},
		"TruncatedSize":    {"5", errs.ErrUnexpectedEOF},
		"NoTerminator":     {"3\r\nabc\r\n", errs.ErrUnexpectedEOF},
		"TrailerFolded":    {"0\r\nA: b\r\n c\r\n\r\n", errs.ErrUnsupportedHeaderFolding},
		"TrailerMalformed": {"0\r\nnocolon\r\n\r\n", errs.ErrMalformedHeader},
		"LineTooLong":      {"3;" + strings.Repeat("x", 5000) + "\r\nabc\r\n0\r\n\r\n", errs.ErrLineTooLong},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			_, err := io.ReadAll(chunked.NewReader(strings.NewReader(c.raw), 0))
			require.ErrorIs(t, err, c.want)
			require.True(t, errs.Is(err, errs.KindProtocol) || errs.Is(err, errs.KindParse))
		})
	}
}

func TestReaderMaxLine(t *testing.T) {
	_, err := io.ReadAll(chunked.NewReader(strings.NewReader("3;abcdef\r\nabc\r\n0\r\n\r\n"), 6))
	require.ErrorIs(t, err, errs.ErrLineTooLong)

	got, err := io.ReadAll(chunked.NewReader(strings.NewReader("3;abcdef\r\nabc\r\n0\r\n\r\n"), 16))
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}
