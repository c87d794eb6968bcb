package transport

import (
	"errors"
	"io"

	"github.com/frankli0324/go-fetch/internal/errs"
)

// fixedReader reads exactly n bytes, the end of body is reported together
// with the last piece of data so the connection is released right away.
type fixedReader struct {
	r         io.Reader
	remaining int64
}

func (f *fixedReader) Read(p []byte) (n int, err error) {
	if f.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > f.remaining {
		p = p[:f.remaining]
	}
	n, err = f.r.Read(p)
	f.remaining -= int64(n)
	switch {
	case f.remaining == 0:
		return n, io.EOF
	case err == io.EOF:
		return n, errs.ErrUnexpectedEOF.Wrap("read body", io.ErrUnexpectedEOF)
	case err != nil:
		return n, readErr("read body", err)
	}
	return n, nil
}

// closeReader reads until the server closes the connection.
type closeReader struct {
	r io.Reader
}

func (c closeReader) Read(p []byte) (n int, err error) {
	n, err = c.r.Read(p)
	if err != nil && err != io.EOF {
		err = readErr("read body", err)
	}
	return n, err
}

// limitReader fails once more than max bytes went through it.
type limitReader struct {
	r    io.Reader
	max  int64
	read int64
}

func limit(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &limitReader{r: r, max: max}
}

func (l *limitReader) Read(p []byte) (n int, err error) {
	n, err = l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return 0, errs.ErrBodyTooLarge.New("read body")
	}
	return n, err
}

func readErr(op string, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	if err == io.ErrUnexpectedEOF {
		return errs.ErrUnexpectedEOF.Wrap(op, err)
	}
	return errs.ErrReadIO.Wrap(op, err)
}
