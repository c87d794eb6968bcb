// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs.
//
// as of 2022.06, RFCs that were to define HTTP/1.1 (RFC753x) are obsoleted by:
//
//	HTTP Semantics (RFC9110)
//	HTTP Caching (RFC9111) and
//	HTTP/1.1 (RFC9112)
//
// only HTTP/1.1 is spoken here. Header lines, the request line and the
// framing of bodies are handled without net/http or net/textproto, the
// latter silently merges folded lines which RFC9112 asks a client to reject.
package transport
