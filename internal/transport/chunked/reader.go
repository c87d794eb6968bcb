package chunked

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/frankli0324/go-fetch/internal/errs"
	"github.com/frankli0324/go-fetch/internal/transport/lines"
)

const DefaultMaxLineBytes = 4096

const maxChunkSize = 1<<63 - 1

// NewReader returns a reader decoding a chunked body from r. It stops
// right after the last CRLF of the message, leaving whatever follows
// unread. Trailers are parsed and discarded.
func NewReader(r io.Reader, maxLineBytes int) *Reader {
	var br *bufio.Reader
	if v, ok := r.(*bufio.Reader); ok {
		br = v
	} else {
		br = bufio.NewReader(r)
	}
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{br: br, maxLine: maxLineBytes}
}

type Reader struct {
	br      *bufio.Reader
	maxLine int

	remaining uint64 // unread bytes of the current chunk
	needCRLF  bool   // data of the previous chunk has been consumed
	err       error  // sticky, io.EOF once the body is over
}

func (c *Reader) Read(p []byte) (n int, err error) {
	for c.err == nil && c.remaining == 0 {
		if c.needCRLF {
			if c.err = c.readCRLF(); c.err != nil {
				break
			}
			c.needCRLF = false
		}
		var size uint64
		if size, c.err = c.readChunkHeader(); c.err != nil {
			break
		}
		if size == 0 {
			if c.err = c.readTrailer(); c.err == nil {
				c.err = io.EOF
			}
			break
		}
		c.remaining, c.needCRLF = size, true
	}
	if c.err != nil {
		return 0, c.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if uint64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err = c.br.Read(p)
	c.remaining -= uint64(n)
	if err != nil {
		c.err = fail("read chunk data", err)
		return n, c.err
	}
	return n, nil
}

func (c *Reader) readChunkHeader() (size uint64, err error) {
	const op = "read chunk size"

	line, err := c.readLine(op)
	if err != nil {
		return 0, err
	}
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i] // chunk extensions are ignored
	}
	line = bytes.TrimRight(line, " \t")
	if len(line) == 0 {
		return 0, errs.ErrInvalidChunkSize.New(op)
	}
	for _, b := range line {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		default:
			return 0, errs.ErrInvalidChunkSize.Wrap(op, errors.New("invalid byte in chunk length"))
		}
		if size > maxChunkSize>>4 {
			return 0, errs.ErrInvalidChunkSize.Wrap(op, errors.New("http chunk length too large"))
		}
		size <<= 4
		size |= uint64(b)
	}
	return size, nil
}

func (c *Reader) readCRLF() error {
	line, err := c.readLine("read chunk terminator")
	if err != nil {
		return err
	}
	if len(line) != 0 {
		return errs.ErrMalformedChunk.New("read chunk terminator")
	}
	return nil
}

func (c *Reader) readTrailer() error {
	const op = "read trailer"
	for {
		line, err := c.readLine(op)
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
		switch _, _, err := lines.Field(line); err {
		case nil:
		case lines.ErrFolded:
			return errs.ErrUnsupportedHeaderFolding.New(op)
		default:
			return errs.ErrMalformedHeader.Wrap(op, err)
		}
	}
}

func (c *Reader) readLine(op string) ([]byte, error) {
	line, crlf, err := lines.Read(c.br, c.maxLine)
	switch {
	case err == lines.ErrTooLong:
		return nil, errs.ErrLineTooLong.New(op)
	case err != nil:
		return nil, fail(op, err)
	case !crlf:
		return nil, errs.ErrMalformedChunk.Wrap(op, lines.ErrMissingCR)
	}
	return line, nil
}

func fail(op string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.ErrUnexpectedEOF.Wrap(op, io.ErrUnexpectedEOF)
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.ErrReadIO.Wrap(op, err)
}
