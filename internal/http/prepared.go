package http

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/indigo-web/utils/strcomp"
	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-fetch/internal/errs"
)

// NoBody is an empty body, it's treated the same as a nil Body.
var NoBody = noBody{}

type noBody struct{}

func (noBody) Read([]byte) (int, error) { return 0, io.EOF }
func (noBody) Close() error             { return nil }

type PreparedRequest struct {
	*Request

	U          *URL
	GetBody    func() (io.ReadCloser, error)
	Header     Headers // without Host, Content-Length and Transfer-Encoding
	HeaderHost string
	// Target overrides the request-target, e.g. the authority-form
	// "host:port" of a CONNECT request.
	Target string

	Framing       Framing
	ContentLength int64 // -1 when unknown
	// DeclaredLength is set when Content-Length came from the caller's
	// headers, in which case it's written even for an empty body.
	DeclaredLength bool
}

func (r *Request) Prepare() (*PreparedRequest, error) {
	const op = "prepare request"

	if r.URL == nil {
		return nil, errs.ErrInvalidURL.New(op)
	}
	if r.Method == "" {
		r.Method = MethodGet
	}
	if !r.Method.Valid() {
		return nil, errs.ErrInvalidMethod.New(op)
	}

	host := r.URL.HostHeader()
	cl := int64(-1)
	declared := false
	headers := make(Headers, 0, len(r.Header))
	// user defined headers has higher priority
	for _, f := range r.Header {
		if !httpguts.ValidHeaderFieldName(f.Name) || !httpguts.ValidHeaderFieldValue(f.Value) {
			return nil, errs.ErrInvalidHeader.Wrap(op, fmt.Errorf("%q", f.Name))
		}
		switch {
		case strcomp.EqualFold(f.Name, "host"):
			host = f.Value
		case strcomp.EqualFold(f.Name, "content-length"):
			v, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
			if err != nil || v < 0 || (declared && v != cl) {
				return nil, errs.ErrInvalidHeader.Wrap(op, fmt.Errorf("content-length %q", f.Value))
			}
			cl, declared = v, true
		case strcomp.EqualFold(f.Name, "transfer-encoding"):
			// framing is decided from the body
		default:
			headers = append(headers, f)
		}
	}
	if host == "" || !httpguts.ValidHostHeader(host) {
		return nil, errs.ErrInvalidHeader.Wrap(op, fmt.Errorf("host %q", host))
	}

	pr := &PreparedRequest{
		Request: r, U: r.URL,
		Header: headers, HeaderHost: host,
		ContentLength: -1, DeclaredLength: declared,
	}
	if err := pr.updateBody(); err != nil {
		// note that updateBody potentially updates content-length
		return nil, err
	}
	switch {
	case !declared:
	case pr.ContentLength == -1 && pr.Framing == FramingChunked:
		pr.ContentLength, pr.Framing = cl, FramingFixed
	case pr.ContentLength != cl:
		return nil, errs.ErrBodyLengthMismatch.Wrap(op, fmt.Errorf(
			"body has %d bytes, content-length header says %d", pr.ContentLength, cl))
	}
	if pr.Framing == FramingNone && declared {
		pr.Framing = FramingFixed
	}
	return pr, nil
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil || r.Request.Body == NoBody {
		r.Framing, r.ContentLength = FramingNone, 0
		r.GetBody = func() (io.ReadCloser, error) {
			return NoBody, nil
		}
		return nil
	}
	r.Framing = FramingFixed
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case iter.Seq[[]byte]:
		r.Framing = FramingChunked
		r.GetBody = once(&seqReader{seq: b})
	case func(yield func([]byte) bool):
		r.Framing = FramingChunked
		r.GetBody = once(&seqReader{seq: b})
	case io.Reader:
		r.Framing = FramingChunked
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.Framing, r.ContentLength = FramingFixed, sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		r.GetBody = once(cb)
	default:
		return errs.ErrInvalidBody.Wrap("prepare request", fmt.Errorf("%T", r.Request.Body))
	}
	return nil
}

// once hands out a non restartable body a single time
func once(body io.ReadCloser) func() (io.ReadCloser, error) {
	taken := uint32(0)
	return func() (io.ReadCloser, error) {
		if atomic.CompareAndSwapUint32(&taken, 0, 1) {
			return body, nil
		}
		return nil, errs.ErrBodyClosed.New("get request body")
	}
}

// seqReader pulls chunks from an iterator on demand.
type seqReader struct {
	seq     iter.Seq[[]byte]
	next    func() ([]byte, bool)
	stop    func()
	pending []byte
}

func (s *seqReader) Read(p []byte) (int, error) {
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	for len(s.pending) == 0 {
		chunk, ok := s.next()
		if !ok {
			return 0, io.EOF
		}
		s.pending = chunk
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *seqReader) Close() error {
	if s.stop != nil {
		s.stop()
	}
	return nil
}
