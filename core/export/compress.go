package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsupportedCompression is returned when an unsupported compression type is requested.
var ErrUnsupportedCompression = errors.New("unsupported compression type")

// Compressor compresses published artifacts.
type Compressor interface {
	// Compress compresses the input data.
	Compress(data []byte) ([]byte, error)

	// Extension returns the suffix appended to the file name (e.g. ".gz"), or "".
	Extension() string

	// ContentEncoding returns the HTTP Content-Encoding of the output, or "".
	ContentEncoding() string
}

// GetCompressor returns the compressor named by compression.
func GetCompressor(compression string) (Compressor, error) {
	switch compression {
	case "", "none":
		return noneCompressor{}, nil
	case "gzip":
		return gzipCompressor{}, nil
	case "zstd":
		return zstdCompressor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Extension() string                    { return "" }
func (noneCompressor) ContentEncoding() string              { return "" }

type gzipCompressor struct{}

func (gzipCompressor) Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buffer, gzip.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buffer.Bytes(), nil
}

func (gzipCompressor) Extension() string       { return ".gz" }
func (gzipCompressor) ContentEncoding() string { return "gzip" }

type zstdCompressor struct{}

func (zstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (zstdCompressor) Extension() string       { return ".zst" }
func (zstdCompressor) ContentEncoding() string { return "zstd" }
