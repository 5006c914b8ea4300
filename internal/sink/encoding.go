package sink

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// newEncodedWriter wraps the writer with a character-set encoder when the
// configured encoding is anything other than UTF-8. Encoding names are
// resolved through the IANA registry, so "latin1", "ISO-8859-1", and
// friends all work.
func newEncodedWriter(w io.WriteCloser, name string) (io.WriteCloser, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" || trimmed == "utf-8" || trimmed == "utf8" {
		return w, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported file encoding %q", name)
	}
	return &encodedWriter{
		Writer: transform.NewWriter(w, enc.NewEncoder()),
		under:  w,
	}, nil
}

type encodedWriter struct {
	*transform.Writer
	under io.Closer
}

func (w *encodedWriter) Close() error {
	// Flush the transformer before releasing the file handle.
	err := w.Writer.Close()
	if cerr := w.under.Close(); err == nil {
		err = cerr
	}
	return err
}
