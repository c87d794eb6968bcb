package http

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"

	"github.com/frankli0324/go-fetch/internal/errs"
)

type Dialer interface {
	// Dial returns a stream exclusively owned by the request, ready for
	// the request to be written to it.
	Dial(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error)
	Unwrap() Dialer
}

// Framing is the way a message body is delimited on the wire.
type Framing uint8

const (
	FramingNone    Framing = iota // no body at all
	FramingFixed                  // Content-Length
	FramingChunked                // Transfer-Encoding: chunked
	FramingClose                  // delimited by the server closing the connection
)

func (f Framing) String() string {
	switch f {
	case FramingFixed:
		return "content-length"
	case FramingChunked:
		return "chunked"
	case FramingClose:
		return "close-delimited"
	}
	return "none"
}

type Request struct {
	Method Method
	URL    *URL
	Header Headers

	// Body is one of:
	//   - nil, for requests without a body
	//   - string, []byte, *bytes.Buffer, *bytes.Reader, *strings.Reader
	//   - iter.Seq[[]byte], pulled one chunk at a time
	//   - any io.Reader, which is closed after the request is written
	//     if it's also an io.Closer
	//
	// sizes of the first group are known in advance, the rest are sent
	// chunked unless a Content-Length header is set, or the reader has
	// a Size() int64 method.
	Body interface{}

	id   uuid.UUID
	sent atomic.Bool
}

func NewRequest(method Method, rawURL string, body interface{}) (*Request, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Request{Method: method, URL: u, Body: body, id: uuid.New()}, nil
}

// NewJSONRequest encodes v as the request body and sets the Content-Type
func NewJSONRequest(method Method, rawURL string, v interface{}) (*Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errs.ErrInvalidBody.Wrap("encode json", err)
	}
	r, err := NewRequest(method, rawURL, b)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	return r, nil
}

// ID identifies the request in logs.
func (r *Request) ID() string {
	if r.id == uuid.Nil {
		return ""
	}
	return r.id.String()
}

func (r *Request) Sent() bool {
	return r.sent.Load()
}

// MarkSent moves the request out of the building state. It fails for
// every call after the first one, whatever happened to the first send.
func (r *Request) MarkSent() error {
	if !r.sent.CompareAndSwap(false, true) {
		return errs.ErrAlreadySent.New("send")
	}
	if r.id == uuid.Nil {
		r.id = uuid.New()
	}
	return nil
}
