package imagetool

import (
	"bytes"
	"compress/gzip"

	"github.com/pkg/errors"
)

// Gzip compresses data into a single-member gzip stream the copier can
// inflate in place.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "gzip writer")
	}
	if _, err := zw.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip write")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip close")
	}
	return buf.Bytes(), nil
}
