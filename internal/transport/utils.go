package transport

import "io"

const maxZeroWrites = 100

// fullWriter retries short writes until p is written completely. A writer
// that keeps accepting nothing fails with io.ErrShortWrite.
type fullWriter struct {
	w io.Writer
}

func (f fullWriter) Write(p []byte) (n int, err error) {
	zeros := 0
	for n < len(p) {
		m, err := f.w.Write(p[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			if zeros++; zeros >= maxZeroWrites {
				return n, io.ErrShortWrite
			}
		}
	}
	return n, nil
}
