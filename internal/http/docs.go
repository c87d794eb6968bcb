// package http contains the request and response type, which are meant
// to be exported through the top level package as aliases so that IDEs
// and code editors could pick them up
//
// unlike net/http, headers are an ordered list, URLs only know about
// http and https, and a response body is bound to the connection it's
// read from.
package http
