package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing
// writer does not stop the others; its error is combined into the result.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports len(p) when at least one writer took the whole message, so
// log output keeps flowing while e.g. a log file is unavailable.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	anyWritten := false
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written == len(p) {
			anyWritten = true
		}
	}

	if anyWritten {
		return len(p), err
	}
	return 0, err
}
