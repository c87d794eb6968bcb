// package lines reads and splits the CRLF terminated lines of HTTP/1.1
// message heads, chunk headers and trailers.
package lines

import (
	"bufio"
	"bytes"
	"errors"

	"github.com/indigo-web/utils/uf"
	"golang.org/x/net/http/httpguts"
)

var (
	ErrTooLong   = errors.New("line too long")
	ErrMissingCR = errors.New("line not terminated by CRLF")
	ErrFolded    = errors.New("folded header line")
	ErrNoColon   = errors.New("header line without colon")
	ErrBadName   = errors.New("invalid header field name")
	ErrBadValue  = errors.New("invalid header field value")
)

// Read returns the next line without its terminator. limit bounds the line
// length including the terminator, lines longer than the bufio buffer are
// accumulated as long as they fit. crlf reports whether the line ended with
// "\r\n" rather than a bare "\n". The returned slice is only valid until the
// next read from br.
func Read(br *bufio.Reader, limit int) (line []byte, crlf bool, err error) {
	var acc []byte
	for {
		frag, err := br.ReadSlice('\n')
		if limit > 0 && len(acc)+len(frag) > limit {
			return nil, false, ErrTooLong
		}
		if err == bufio.ErrBufferFull {
			acc = append(acc, frag...)
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if acc != nil {
			frag = append(acc, frag...)
		}
		frag = frag[:len(frag)-1]
		if n := len(frag); n > 0 && frag[n-1] == '\r' {
			return frag[:n-1], true, nil
		}
		return frag, false, nil
	}
}

// Field splits a "Name: value" header line, trimming optional whitespace
// around the value. Obsolete line folding is reported with ErrFolded.
func Field(line []byte) (name, value string, err error) {
	if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
		return "", "", ErrFolded
	}
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return "", "", ErrNoColon
	}
	if !httpguts.ValidHeaderFieldName(uf.B2S(line[:i])) {
		return "", "", ErrBadName
	}
	v := bytes.Trim(line[i+1:], " \t")
	if !httpguts.ValidHeaderFieldValue(uf.B2S(v)) {
		return "", "", ErrBadValue
	}
	return string(line[:i]), string(v), nil
}
