package tabview

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression applied to a source or export
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
	// CompressionAuto detects compression from the extension or the leading bytes
	CompressionAuto
)

// string constants for compression types
const (
	compressionNoneStr = "none"
	compressionGZStr   = "gzip"
	compressionBZ2Str  = "bz2"
	compressionXZStr   = "xz"
	compressionZSTDStr = "zstd"
	compressionAutoStr = "auto"
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return compressionGZStr
	case CompressionBZ2:
		return compressionBZ2Str
	case CompressionXZ:
		return compressionXZStr
	case CompressionZSTD:
		return compressionZSTDStr
	case CompressionAuto:
		return compressionAutoStr
	default:
		return compressionNoneStr
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// ParseCompression parses a compression name such as "gzip" or "auto".
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", compressionAutoStr, "infer":
		return CompressionAuto, nil
	case compressionNoneStr:
		return CompressionNone, nil
	case compressionGZStr, "gz":
		return CompressionGZ, nil
	case compressionBZ2Str, "bzip2":
		return CompressionBZ2, nil
	case compressionXZStr:
		return CompressionXZ, nil
	case compressionZSTDStr, "zst":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, s)
	}
}

// CompressionHandler defines the interface for handling file compression/decompression
type CompressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

// compressionHandlerImpl implements the CompressionHandler interface
type compressionHandlerImpl struct {
	compressionType CompressionType
}

// NewCompressionHandler creates a new compression handler for the given compression type.
// CompressionAuto must be resolved before a handler is created.
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return &compressionHandlerImpl{
		compressionType: compressionType,
	}
}

func noopClose() error { return nil }

// CreateReader creates a decompression reader based on the compression type
func (h *compressionHandlerImpl) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return reader, noopClose, nil

	case CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case CompressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), noopClose, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, noopClose, nil

	case CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %v", h.compressionType)
	}
}

// CreateWriter creates a compression writer based on the compression type
func (h *compressionHandlerImpl) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return writer, noopClose, nil

	case CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil

	case CompressionBZ2:
		// bzip2 doesn't have a writer in the standard library
		return nil, nil, errors.New("bzip2 compression is not supported for writing")

	case CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil

	case CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type for writing: %v", h.compressionType)
	}
}

// Extension returns the file extension for this compression type
func (h *compressionHandlerImpl) Extension() string {
	return h.compressionType.Extension()
}

// compressionFromPath detects the compression type from a file path suffix
func compressionFromPath(path string) CompressionType {
	_, ext := trimCompressionExt(path)
	switch strings.ToLower(ext) {
	case extGZ:
		return CompressionGZ
	case extBZ2:
		return CompressionBZ2
	case extXZ:
		return CompressionXZ
	case extZSTD:
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// Leading bytes of the compressed formats
var (
	magicGZ   = []byte{0x1f, 0x8b}
	magicBZ2  = []byte("BZh")
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZSTD = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// sniffCompression inspects the first bytes of br without consuming them.
func sniffCompression(br *bufio.Reader) CompressionType {
	head, _ := br.Peek(len(magicXZ))
	switch {
	case bytes.HasPrefix(head, magicGZ):
		return CompressionGZ
	case bytes.HasPrefix(head, magicBZ2):
		return CompressionBZ2
	case bytes.HasPrefix(head, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(head, magicZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// resolveCompression turns CompressionAuto into a concrete type. The path
// suffix wins; without one the leading bytes decide.
func resolveCompression(requested CompressionType, path string, br *bufio.Reader) CompressionType {
	if requested != CompressionAuto {
		return requested
	}
	if c := compressionFromPath(path); c != CompressionNone {
		return c
	}
	return sniffCompression(br)
}
