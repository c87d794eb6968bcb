package http

import (
	"io"

	json "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/errs"
)

const recvBufferSize = 32 << 10

type ResponseState uint8

const (
	StateHeadRead ResponseState = iota
	StateBodyStreaming
	StateDrained
	StateDiscarded
)

func (s ResponseState) String() string {
	switch s {
	case StateHeadRead:
		return "head-read"
	case StateBodyStreaming:
		return "body-streaming"
	case StateDrained:
		return "drained"
	}
	return "discarded"
}

// Response is a received response head with its body still on the wire.
// The body must either be consumed until io.EOF or the Response closed,
// both of which release the connection. Connections are never reused.
type Response struct {
	Proto      string
	Status     string
	StatusCode int
	Header     Headers

	Framing       Framing
	ContentLength int64 // -1 unless Framing is FramingFixed or FramingNone

	RequestID string

	state   ResponseState
	body    io.Reader
	release func()
	buf     []byte
	pending []byte
	err     error
}

func (r *Response) State() ResponseState { return r.state }

// Attach hands the body stream to the response, release is called exactly
// once when the body is drained, fails or the response is closed. A nil
// body means the response has none, and is released right away.
func (r *Response) Attach(body io.Reader, release func()) {
	r.body, r.release = body, release
	r.state = StateBodyStreaming
	if body == nil {
		r.finish(StateDrained, nil)
	}
}

// Recv returns the next piece of body, the slice is only valid until the
// next call. The end of body is reported with io.EOF, any number of times.
// Any other error is terminal and returned again by subsequent calls.
func (r *Response) Recv() ([]byte, error) {
	switch r.state {
	case StateDrained:
		return nil, io.EOF
	case StateDiscarded:
		if r.err != nil {
			return nil, r.err
		}
		return nil, errs.ErrBodyClosed.New("recv")
	case StateHeadRead:
		return nil, errs.ErrNotStreaming.New("recv")
	}
	if r.buf == nil {
		r.buf = make([]byte, recvBufferSize)
	}
	buf := r.buf
	for empty := 0; empty < 100; empty++ {
		n, err := r.body.Read(buf)
		switch {
		case err == io.EOF:
			r.finish(StateDrained, nil)
			if n > 0 {
				return buf[:n], nil
			}
			return nil, io.EOF
		case err != nil:
			r.finish(StateDiscarded, err)
			return nil, err
		case n > 0:
			return buf[:n], nil
		}
	}
	r.finish(StateDiscarded, errs.ErrReadIO.Wrap("recv", io.ErrNoProgress))
	return nil, r.err
}

// Read implements io.Reader on top of Recv.
func (r *Response) Read(p []byte) (n int, err error) {
	if len(r.pending) == 0 {
		r.pending, err = r.Recv()
	}
	n = copy(p, r.pending)
	r.pending = r.pending[n:]
	if len(r.pending) != 0 {
		err = nil
	}
	return n, err
}

// Bytes reads the rest of the body at once.
func (r *Response) Bytes() ([]byte, error) {
	var out []byte
	if r.Framing == FramingFixed && r.ContentLength > 0 && r.ContentLength <= recvBufferSize*32 {
		out = make([]byte, 0, r.ContentLength)
	}
	out = append(out, r.pending...)
	r.pending = nil
	for {
		chunk, err := r.Recv()
		out = append(out, chunk...)
		switch err {
		case nil:
		case io.EOF:
			return out, nil
		default:
			return nil, err
		}
	}
}

// String returns the rest of the body as a string.
func (r *Response) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// JSON decodes the rest of the body into v.
func (r *Response) JSON(v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// Close discards the body. A connection closed before the end of body
// is dropped, never resynchronized.
func (r *Response) Close() error {
	if r.state == StateHeadRead || r.state == StateBodyStreaming {
		log.WithFields(log.Fields{
			"req_id": r.RequestID, "framing": r.Framing.String(),
		}).Debug("response closed before end of body, discarding connection")
		r.finish(StateDiscarded, nil)
	}
	return nil
}

func (r *Response) finish(state ResponseState, err error) {
	r.state, r.err = state, err
	r.buf, r.body = nil, nil
	if r.release != nil {
		r.release()
		r.release = nil
	}
}
