package reference

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCloser closes the decompressor and the file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// open opens a dataset file, decompressing .gz files and dropping a
// leading UTF-8 byte order mark.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc := &readCloser{Reader: f, closers: []io.Closer{f}}

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, zr)
	}

	rc.Reader = transform.NewReader(rc.Reader, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return rc, nil
}
