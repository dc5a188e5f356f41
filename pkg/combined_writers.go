package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to every writer even when some of them fail.
// A write counts as done as long as one writer took the whole buffer.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		err       error
		delivered bool
	)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written == len(p) {
			delivered = true
		}
	}
	if delivered {
		return len(p), err
	}
	return 0, err
}
