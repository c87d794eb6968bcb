package chunked

import (
	"io"
	"strconv"
)

// Writer frames every non-empty Write as exactly one chunk. If the wire
// can be flushed, each chunk is flushed as soon as it's framed so that a
// streamed body reaches the peer while the source is still producing.
type Writer struct {
	Wire io.Writer

	scratch []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{Wire: w}
}

func (cw *Writer) Write(data []byte) (int, error) {
	if len(data) == 0 { // an empty chunk would end the body
		return 0, nil
	}
	cw.scratch = strconv.AppendInt(cw.scratch[:0], int64(len(data)), 16)
	cw.scratch = append(cw.scratch, '\r', '\n')
	if _, err := cw.Wire.Write(cw.scratch); err != nil {
		return 0, err
	}
	n, err := cw.Wire.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, err
	}
	if _, err := io.WriteString(cw.Wire, "\r\n"); err != nil {
		return n, err
	}
	if f, ok := cw.Wire.(interface{ Flush() error }); ok {
		return n, f.Flush()
	}
	return n, nil
}

// Close writes the last chunk and an empty trailer section. The wire is
// left open.
func (cw *Writer) Close() error {
	n, err := io.WriteString(cw.Wire, "0\r\n\r\n")
	if err == nil && n != 5 {
		err = io.ErrShortWrite
	}
	return err
}
