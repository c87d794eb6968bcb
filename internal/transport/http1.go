package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/frankli0324/go-fetch/internal/errs"
	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport/chunked"
	"github.com/frankli0324/go-fetch/internal/transport/lines"
)

const (
	DefaultMaxHeaderBytes = 64 << 10
	bodyBufferSize        = 32 << 10
)

// HTTP1 writes requests and reads responses in HTTP/1.1 message syntax.
// The zero value is ready to use.
type HTTP1 struct {
	MaxHeaderBytes    int   // limit of the whole response head, 64KiB if zero
	MaxChunkLineBytes int   // limit of chunk size and trailer lines, 4KiB if zero
	MaxBodySize       int64 // response body limit, unlimited if zero
}

// WriteRequest writes r onto w, the body is streamed from r.GetBody. The
// body is always closed, even if writing the head fails.
func (t HTTP1) WriteRequest(w io.Writer, r *http.PreparedRequest) error {
	body, err := r.GetBody() // can write body
	if err != nil {
		return err
	}
	defer body.Close() // request body is ALWAYS closed

	bw := bufio.NewWriter(fullWriter{w}) // default bufsize is 4096
	if err := t.writeHeader(bw, r); err != nil {
		return errs.ErrWriteIO.Wrap("write request head", err)
	}

	switch r.Framing {
	case http.FramingFixed:
		err = copyBody(bw, body, r.ContentLength)
	case http.FramingChunked:
		cw := chunked.NewWriter(bw)
		if err = copyBody(cw, body, -1); err == nil {
			if cerr := cw.Close(); cerr != nil {
				err = errs.ErrWriteIO.Wrap("write request body", cerr)
			}
		}
	}
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errs.ErrWriteIO.Wrap("flush request", err)
	}
	return nil
}

// writeHeader writes the status and header part of an http 1.1 request
// e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
func (t HTTP1) writeHeader(header *bufio.Writer, r *http.PreparedRequest) error {
	target := r.Target
	if target == "" {
		target = r.U.RequestURI()
	}
	header.WriteString(string(r.Method))
	header.WriteByte(' ')
	header.WriteString(target)
	header.WriteString(" HTTP/1.1\r\n")

	header.WriteString("Host: ")
	header.WriteString(r.HeaderHost)
	header.WriteString("\r\n")
	switch {
	case r.Framing == http.FramingFixed:
		header.WriteString("Content-Length: ")
		header.WriteString(strconv.FormatInt(r.ContentLength, 10))
		header.WriteString("\r\n")
	case r.Framing == http.FramingChunked:
		header.WriteString("Transfer-Encoding: chunked\r\n")
	case r.Method.ExpectsBody():
		header.WriteString("Content-Length: 0\r\n")
	}
	for _, f := range r.Header {
		header.WriteString(f.Name)
		header.WriteString(": ")
		header.WriteString(f.Value)
		if _, err := header.WriteString("\r\n"); err != nil {
			return err
		}
	}
	if _, err := header.WriteString("\r\n"); err != nil {
		return err
	}
	return header.Flush()
}

// copyBody streams src into dst. When n isn't negative, src must produce
// exactly n bytes.
func copyBody(dst io.Writer, src io.Reader, n int64) error {
	const op = "write request body"

	buf := make([]byte, bodyBufferSize)
	written := int64(0)
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			if n >= 0 && written+int64(nr) > n {
				return errs.ErrBodyLengthMismatch.Wrap(op, fmt.Errorf("body longer than %d bytes", n))
			}
			if _, err := dst.Write(buf[:nr]); err != nil {
				return errs.ErrWriteIO.Wrap(op, err)
			}
			written += int64(nr)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errs.ErrBodySource.Wrap(op, rerr)
		}
	}
	if n >= 0 && written != n {
		return errs.ErrBodyLengthMismatch.Wrap(op, fmt.Errorf("body has %d bytes, expected %d", written, n))
	}
	return nil
}

// ReadResponse reads the head of the response to a request of the given
// method into resp and returns the reader of its body, which is nil when
// the response has none. Interim 1xx responses are skipped.
func (t HTTP1) ReadResponse(br *bufio.Reader, method http.Method, resp *http.Response) (io.Reader, error) {
	for {
		if err := t.readHead(br, resp); err != nil {
			return nil, err
		}
		if resp.StatusCode >= 200 || resp.StatusCode == 101 {
			break
		}
	}
	return t.readTransfer(br, method, resp)
}

func (t HTTP1) readHead(br *bufio.Reader, resp *http.Response) error {
	budget := t.MaxHeaderBytes
	if budget <= 0 {
		budget = DefaultMaxHeaderBytes
	}

	line, err := t.readHeadLine(br, &budget, "read status line")
	if err != nil {
		return err
	}
	if err := parseStatusLine(line, resp); err != nil {
		return err
	}

	// Parse the response headers.
	resp.Header = resp.Header[:0]
	for {
		line, err := t.readHeadLine(br, &budget, "read header")
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
		name, value, err := lines.Field(line)
		switch err {
		case nil:
			resp.Header.Add(name, value)
		case lines.ErrFolded:
			return errs.ErrUnsupportedHeaderFolding.New("read header")
		default:
			return errs.ErrMalformedHeader.Wrap("read header", fmt.Errorf("%w: %q", err, line))
		}
	}
}

func (t HTTP1) readHeadLine(br *bufio.Reader, budget *int, op string) ([]byte, error) {
	if *budget <= 0 {
		return nil, errs.ErrHeaderTooLarge.New(op)
	}
	line, crlf, err := lines.Read(br, *budget)
	switch {
	case err == lines.ErrTooLong:
		return nil, errs.ErrHeaderTooLarge.New(op)
	case err == io.EOF:
		return nil, errs.ErrReadIO.Wrap(op, io.ErrUnexpectedEOF)
	case err != nil:
		return nil, readErr(op, err)
	}
	*budget -= len(line) + 1
	if crlf {
		*budget--
	}
	return line, nil
}

// parseStatusLine parses lines like "HTTP/1.1 200 OK". The reason phrase
// may be empty, the space before it may be missing too.
func parseStatusLine(line []byte, resp *http.Response) error {
	const op = "read status line"

	proto, rest, ok := strings.Cut(uf.B2S(line), " ")
	if !ok || (proto != "HTTP/1.1" && proto != "HTTP/1.0") {
		return errs.ErrMalformedStatusLine.Wrap(op, fmt.Errorf("%q", line))
	}
	if len(rest) < 3 || (len(rest) > 3 && rest[3] != ' ') {
		return errs.ErrMalformedStatusLine.Wrap(op, fmt.Errorf("%q", line))
	}
	code := 0
	for i := 0; i < 3; i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return errs.ErrMalformedStatusLine.Wrap(op, fmt.Errorf("%q", line))
		}
		code = code*10 + int(rest[i]-'0')
	}
	if code < 100 {
		return errs.ErrMalformedStatusLine.Wrap(op, fmt.Errorf("%q", line))
	}
	resp.Proto = strings.Clone(proto)
	resp.Status = strings.Clone(strings.TrimRight(rest, " "))
	resp.StatusCode = code
	return nil
}

// readTransfer decides how the body is delimited. The priority is:
// no body for HEAD, 1xx, 204, 304 and a successful CONNECT; chunked;
// Content-Length; close.
func (t HTTP1) readTransfer(br *bufio.Reader, method http.Method, resp *http.Response) (io.Reader, error) {
	const op = "read transfer"

	if method == http.MethodHead || resp.StatusCode/100 == 1 ||
		resp.StatusCode == 204 || resp.StatusCode == 304 ||
		(method == http.MethodConnect && resp.StatusCode/100 == 2) {
		resp.Framing, resp.ContentLength = http.FramingNone, 0
		if method == http.MethodHead {
			if cl, err := contentLength(resp.Header); err == nil {
				resp.ContentLength = cl
			}
		}
		return nil, nil
	}

	if codings := transferCodings(resp.Header); len(codings) > 0 {
		// Transfer-Encoding overrides Content-Length
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		for i, c := range codings {
			if strcomp.EqualFold(c, "chunked") && i != len(codings)-1 {
				return nil, errs.ErrMalformedHeader.Wrap(op, errors.New("chunked is not the final transfer coding"))
			}
		}
		if strcomp.EqualFold(codings[len(codings)-1], "chunked") {
			resp.Framing = http.FramingChunked
			return limit(chunked.NewReader(br, t.MaxChunkLineBytes), t.MaxBodySize), nil
		}
		resp.Framing = http.FramingClose
		return limit(closeReader{br}, t.MaxBodySize), nil
	}

	cl, err := contentLength(resp.Header)
	switch {
	case err != nil:
		return nil, err
	case cl == -1:
		resp.Framing, resp.ContentLength = http.FramingClose, -1
		return limit(closeReader{br}, t.MaxBodySize), nil
	case t.MaxBodySize > 0 && cl > t.MaxBodySize:
		return nil, errs.ErrBodyTooLarge.Wrap(op, fmt.Errorf("content-length %d", cl))
	}
	resp.Framing, resp.ContentLength = http.FramingFixed, cl
	if cl == 0 {
		return nil, nil
	}
	return &fixedReader{r: br, remaining: cl}, nil
}

// contentLength returns -1 when no Content-Length is present.
func contentLength(h http.Headers) (int64, error) {
	contentLens := h.Values("Content-Length")
	if len(contentLens) == 0 {
		return -1, nil
	}

	// Per RFC 7230 Section 3.3.2, taken from standard library
	first := strings.TrimSpace(contentLens[0])
	for _, ct := range contentLens[1:] {
		if first != strings.TrimSpace(ct) {
			return 0, errs.ErrInvalidContentLength.Wrap("read transfer",
				fmt.Errorf("message cannot contain multiple Content-Length headers; got %q", contentLens))
		}
	}
	n, err := strconv.ParseUint(first, 10, 63)
	if err != nil || first[0] == '+' {
		return 0, errs.ErrInvalidContentLength.Wrap("read transfer", fmt.Errorf("%q", first))
	}
	return int64(n), nil
}

func transferCodings(h http.Headers) []string {
	var codings []string
	for v := range h.Iter("Transfer-Encoding") {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codings = append(codings, c)
			}
		}
	}
	return codings
}
