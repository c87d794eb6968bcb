package http

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/errs"
)

func mustRequest(t *testing.T, method Method, url string, body interface{}) *Request {
	t.Helper()
	r, err := NewRequest(method, url, body)
	require.NoError(t, err)
	return r
}

func TestPrepareBodyKinds(t *testing.T) {
	seq := func(yield func([]byte) bool) {
		for _, c := range []string{"ab", "", "c"} {
			if !yield([]byte(c)) {
				return
			}
		}
	}
	cases := map[string]struct {
		body    interface{}
		framing Framing
		length  int64
		content string
	}{
		"Nil":           {nil, FramingNone, 0, ""},
		"NoBody":        {NoBody, FramingNone, 0, ""},
		"String":        {"hello", FramingFixed, 5, "hello"},
		"EmptyString":   {"", FramingFixed, 0, ""},
		"Bytes":         {[]byte("hey"), FramingFixed, 3, "hey"},
		"Buffer":        {bytes.NewBufferString("buf"), FramingFixed, 3, "buf"},
		"BytesReader":   {bytes.NewReader([]byte("br")), FramingFixed, 2, "br"},
		"StringsReader": {strings.NewReader("sr"), FramingFixed, 2, "sr"},
		"Reader":        {iotest.OneByteReader(strings.NewReader("stream")), FramingChunked, -1, "stream"},
		"Seq":           {seq, FramingChunked, -1, "abc"},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			pr, err := mustRequest(t, MethodPost, "http://h/", c.body).Prepare()
			require.NoError(t, err)
			require.Equal(t, c.framing, pr.Framing)
			require.Equal(t, c.length, pr.ContentLength)

			body, err := pr.GetBody()
			require.NoError(t, err)
			got, err := io.ReadAll(body)
			require.NoError(t, err)
			require.Equal(t, c.content, string(got))
			require.NoError(t, body.Close())
		})
	}
}

func TestPrepareStreamBodyOnlyOnce(t *testing.T) {
	pr, err := mustRequest(t, MethodPut, "http://h/", io.NopCloser(strings.NewReader("x"))).Prepare()
	require.NoError(t, err)
	_, err = pr.GetBody()
	require.NoError(t, err)
	_, err = pr.GetBody()
	require.ErrorIs(t, err, errs.ErrBodyClosed)
}

func TestPrepareHeaders(t *testing.T) {
	r := mustRequest(t, MethodGet, "http://example.com:8080/", nil)
	r.Header.Add("X-Trace", "1")
	r.Header.Add("host", "override.test")
	r.Header.Add("Transfer-Encoding", "gzip")
	pr, err := r.Prepare()
	require.NoError(t, err)
	require.Equal(t, "override.test", pr.HeaderHost)
	require.Equal(t, Headers{{"X-Trace", "1"}}, pr.Header)
	require.Equal(t, FramingNone, pr.Framing)

	r = mustRequest(t, "", "http://example.com:8080/", nil)
	pr, err = r.Prepare()
	require.NoError(t, err)
	require.Equal(t, MethodGet, pr.Method)
	require.Equal(t, "example.com:8080", pr.HeaderHost)
}

func TestPrepareDeclaredLength(t *testing.T) {
	r := mustRequest(t, MethodPost, "http://h/", io.NopCloser(strings.NewReader("12345")))
	r.Header.Set("Content-Length", "5")
	pr, err := r.Prepare()
	require.NoError(t, err)
	require.Equal(t, FramingFixed, pr.Framing)
	require.EqualValues(t, 5, pr.ContentLength)
	require.True(t, pr.DeclaredLength)

	r = mustRequest(t, MethodPost, "http://h/", "1234")
	r.Header.Set("Content-Length", "5")
	_, err = r.Prepare()
	require.ErrorIs(t, err, errs.ErrBodyLengthMismatch)

	r = mustRequest(t, MethodGet, "http://h/", nil)
	r.Header.Set("Content-Length", "0")
	pr, err = r.Prepare()
	require.NoError(t, err)
	require.Equal(t, FramingFixed, pr.Framing)
}

func TestPrepareRejects(t *testing.T) {
	cases := map[string]struct {
		mutate func(r *Request)
		want   error
	}{
		"BadMethod":     {func(r *Request) { r.Method = "GE T" }, errs.ErrInvalidMethod},
		"BadName":       {func(r *Request) { r.Header.Add("X Y", "1") }, errs.ErrInvalidHeader},
		"CRLFValue":     {func(r *Request) { r.Header.Add("X", "1\r\nInjected: 1") }, errs.ErrInvalidHeader},
		"BadLength":     {func(r *Request) { r.Header.Add("Content-Length", "-1") }, errs.ErrInvalidHeader},
		"TwoLengths":    {func(r *Request) { r.Header.Add("Content-Length", "1"); r.Header.Add("content-length", "2") }, errs.ErrInvalidHeader},
		"EmptyHost":     {func(r *Request) { r.Header.Set("Host", "") }, errs.ErrInvalidHeader},
		"NilURL":        {func(r *Request) { r.URL = nil }, errs.ErrInvalidURL},
		"UnknownBody":   {func(r *Request) { r.Body = 42 }, errs.ErrInvalidBody},
		"LengthNoBody":  {func(r *Request) { r.Header.Set("Content-Length", "3") }, errs.ErrBodyLengthMismatch},
		"StructBody":    {func(r *Request) { r.Body = struct{}{} }, errs.ErrInvalidBody},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			r := mustRequest(t, MethodGet, "http://h/", nil)
			c.mutate(r)
			_, err := r.Prepare()
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestRequestMarkSent(t *testing.T) {
	r := &Request{Method: MethodGet}
	require.Empty(t, r.ID())
	require.NoError(t, r.MarkSent())
	require.NotEmpty(t, r.ID())
	require.True(t, r.Sent())
	require.ErrorIs(t, r.MarkSent(), errs.ErrAlreadySent)
}

func TestNewJSONRequest(t *testing.T) {
	r, err := NewJSONRequest(MethodPost, "http://h/users", map[string]int{"id": 1})
	require.NoError(t, err)
	require.Equal(t, "application/json", r.Header.Get("content-type"))
	require.Equal(t, []byte(`{"id":1}`), r.Body)

	_, err = NewJSONRequest(MethodPost, "http://h/", make(chan int))
	require.ErrorIs(t, err, errs.ErrInvalidBody)
}
