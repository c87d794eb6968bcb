package fetch

import (
	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/http"
)

type Client = internal.Client
type Middleware = internal.Middleware
type Handler = internal.Handler

type Request = http.Request
type PreparedRequest = http.PreparedRequest
type Response = http.Response
type ResponseState = http.ResponseState

type URL = http.URL
type Method = http.Method
type Headers = http.Headers
type Field = http.Field
type Framing = http.Framing

const (
	MethodGet     = http.MethodGet
	MethodHead    = http.MethodHead
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodConnect = http.MethodConnect
	MethodOptions = http.MethodOptions
	MethodTrace   = http.MethodTrace
)

const (
	StateHeadRead      = http.StateHeadRead
	StateBodyStreaming = http.StateBodyStreaming
	StateDrained       = http.StateDrained
	StateDiscarded     = http.StateDiscarded
)

const (
	FramingNone    = http.FramingNone
	FramingFixed   = http.FramingFixed
	FramingChunked = http.FramingChunked
	FramingClose   = http.FramingClose
)

// NoBody is an empty request body.
var NoBody = http.NoBody

// ParseURL parses an absolute http or https url. The port defaults to 80
// or 443, the fragment is dropped.
func ParseURL(raw string) (*URL, error) {
	return http.ParseURL(raw)
}

// NewRequest creates a request, see [Request] for the accepted bodies.
func NewRequest(method Method, rawURL string, body interface{}) (*Request, error) {
	return http.NewRequest(method, rawURL, body)
}

// NewJSONRequest creates a request with v encoded as its JSON body.
func NewJSONRequest(method Method, rawURL string, v interface{}) (*Request, error) {
	return http.NewJSONRequest(method, rawURL, v)
}
