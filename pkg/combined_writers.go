package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans each Write out to all writers. Unlike
// io.MultiWriter it keeps writing after a failure and reports the
// collected errors at the end, so a broken log sink never silences
// the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

func (cw CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
