package transport

import (
	"bufio"
	"io"

	"github.com/frankli0324/go-fetch/internal/http"
)

// Transport is a message syntax, it frames a request onto a byte stream and
// parses the response coming back.
type Transport interface {
	WriteRequest(w io.Writer, r *http.PreparedRequest) error
	ReadResponse(br *bufio.Reader, method http.Method, resp *http.Response) (io.Reader, error)
}

var _ Transport = HTTP1{}
