package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Extension is appended to the names of LZ4-framed files.
const Extension = ".lz4"

// NewCompressor wraps w in an LZ4 frame writer. Close flushes the frame.
func NewCompressor(w io.Writer) io.WriteCloser {
	return lz4.NewWriter(w)
}

// Compress returns data as a single LZ4 frame.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := NewCompressor(&buf)

	_, writeErr := zw.Write(data)
	if writeErr != nil {
		return nil, fmt.Errorf("lz4 compress: %w", writeErr)
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("lz4 compress: %w", closeErr)
	}

	return buf.Bytes(), nil
}

// Decompress reads an LZ4 frame stream to its end.
func Decompress(r io.Reader) ([]byte, error) {
	data, readErr := io.ReadAll(lz4.NewReader(r))
	if readErr != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", readErr)
	}

	return data, nil
}
