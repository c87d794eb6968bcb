package http

import "golang.org/x/net/http/httpguts"

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Valid reports whether m is a syntactically valid method token.
// Extension methods are allowed.
func (m Method) Valid() bool {
	return m != "" && httpguts.ValidHeaderFieldName(string(m))
}

// ExpectsBody reports whether requests of this method conventionally
// carry a body, in which case an empty body is still announced with
// "Content-Length: 0".
func (m Method) ExpectsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}
