package tabview

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compressBytes compresses data with the given type for test fixtures
func compressBytes(t *testing.T, compressionType CompressionType, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	switch compressionType {
	case CompressionNone:
		buf.Write(data)
	case CompressionGZ:
		w := gzip.NewWriter(&buf)
		_, _ = w.Write(data)
		_ = w.Close()
	case CompressionXZ:
		w, err := xz.NewWriter(&buf)
		if err != nil {
			t.Fatalf("Failed to create xz writer: %v", err)
		}
		_, _ = w.Write(data)
		_ = w.Close()
	case CompressionZSTD:
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("Failed to create zstd writer: %v", err)
		}
		_, _ = w.Write(data)
		_ = w.Close()
	default:
		t.Fatalf("no fixture writer for %v", compressionType)
	}
	return buf.Bytes()
}

// TestCompressionHandlerInterface tests the CompressionHandler interface implementation
func TestCompressionHandlerInterface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		compressionType CompressionType
		extension       string
		canWrite        bool
	}{
		{name: "No compression", compressionType: CompressionNone, extension: "", canWrite: true},
		{name: "Gzip compression", compressionType: CompressionGZ, extension: ".gz", canWrite: true},
		{name: "Bzip2 compression", compressionType: CompressionBZ2, extension: ".bz2", canWrite: false},
		{name: "XZ compression", compressionType: CompressionXZ, extension: ".xz", canWrite: true},
		{name: "ZSTD compression", compressionType: CompressionZSTD, extension: ".zst", canWrite: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(tt.compressionType)
			if got := handler.Extension(); got != tt.extension {
				t.Errorf("Extension() = %v, want %v", got, tt.extension)
			}

			testData := []byte("id,name\n1,alice\n")

			var output bytes.Buffer
			writer, cleanup, err := handler.CreateWriter(&output)
			if !tt.canWrite {
				if err == nil {
					t.Errorf("CreateWriter() error = nil, want error for unsupported compression")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateWriter() error = %v, want nil", err)
			}
			if _, err := writer.Write(testData); err != nil {
				t.Fatalf("Failed to write data: %v", err)
			}
			if err := cleanup(); err != nil {
				t.Fatalf("cleanup() error = %v", err)
			}

			reader, cleanup, err := handler.CreateReader(&output)
			if err != nil {
				t.Fatalf("CreateReader() error = %v", err)
			}
			defer func() {
				_ = cleanup()
			}()

			readData, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to read data: %v", err)
			}
			if !bytes.Equal(readData, testData) {
				t.Errorf("Read data = %q, want %q", readData, testData)
			}
		})
	}
}

func TestCompressionFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected CompressionType
	}{
		{"data.csv", CompressionNone},
		{"data.csv.gz", CompressionGZ},
		{"data.CSV.GZ", CompressionGZ},
		{"data.tsv.bz2", CompressionBZ2},
		{"data.txt.xz", CompressionXZ},
		{"data.parquet.zst", CompressionZSTD},
		{"path/to/file.csv", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := compressionFromPath(tt.path); got != tt.expected {
				t.Errorf("compressionFromPath(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestSniffCompression(t *testing.T) {
	t.Parallel()

	data := []byte("a,b\n1,2\n")
	tests := []struct {
		name     string
		input    []byte
		expected CompressionType
	}{
		{name: "plain text", input: data, expected: CompressionNone},
		{name: "gzip", input: compressBytes(t, CompressionGZ, data), expected: CompressionGZ},
		{name: "xz", input: compressBytes(t, CompressionXZ, data), expected: CompressionXZ},
		{name: "zstd", input: compressBytes(t, CompressionZSTD, data), expected: CompressionZSTD},
		{name: "bzip2 magic", input: []byte("BZh91AY&SY"), expected: CompressionBZ2},
		{name: "shorter than any magic", input: []byte{0x1f}, expected: CompressionNone},
		{name: "empty", input: nil, expected: CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			br := bufio.NewReader(bytes.NewReader(tt.input))
			if got := sniffCompression(br); got != tt.expected {
				t.Errorf("sniffCompression() = %v, want %v", got, tt.expected)
			}

			// sniffing must not consume input
			rest, err := io.ReadAll(br)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(rest, tt.input) {
				t.Errorf("sniffCompression() consumed input")
			}
		})
	}
}

func TestResolveCompression(t *testing.T) {
	t.Parallel()

	gzipped := compressBytes(t, CompressionGZ, []byte("a\n1\n"))

	t.Run("explicit type is kept", func(t *testing.T) {
		t.Parallel()

		br := bufio.NewReader(bytes.NewReader(gzipped))
		if got := resolveCompression(CompressionNone, "data.csv.gz", br); got != CompressionNone {
			t.Errorf("resolveCompression() = %v, want %v", got, CompressionNone)
		}
	})

	t.Run("path suffix wins over content", func(t *testing.T) {
		t.Parallel()

		br := bufio.NewReader(bytes.NewReader([]byte("plain")))
		if got := resolveCompression(CompressionAuto, "data.csv.zst", br); got != CompressionZSTD {
			t.Errorf("resolveCompression() = %v, want %v", got, CompressionZSTD)
		}
	})

	t.Run("content decides without suffix", func(t *testing.T) {
		t.Parallel()

		br := bufio.NewReader(bytes.NewReader(gzipped))
		if got := resolveCompression(CompressionAuto, "data.csv", br); got != CompressionGZ {
			t.Errorf("resolveCompression() = %v, want %v", got, CompressionGZ)
		}
	})
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected CompressionType
		wantErr  bool
	}{
		{"", CompressionAuto, false},
		{"auto", CompressionAuto, false},
		{"infer", CompressionAuto, false},
		{"none", CompressionNone, false},
		{"gzip", CompressionGZ, false},
		{"GZ", CompressionGZ, false},
		{"bzip2", CompressionBZ2, false},
		{"xz", CompressionXZ, false},
		{"zst", CompressionZSTD, false},
		{"lz4", CompressionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCompression(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseCompression(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestCompressionTypeConstants tests the CompressionType constants and methods
func TestCompressionTypeConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compressionType CompressionType
		stringValue     string
		extension       string
	}{
		{CompressionNone, "none", ""},
		{CompressionGZ, "gzip", ".gz"},
		{CompressionBZ2, "bz2", ".bz2"},
		{CompressionXZ, "xz", ".xz"},
		{CompressionZSTD, "zstd", ".zst"},
		{CompressionAuto, "auto", ""},
	}

	for _, tt := range tests {
		t.Run(tt.stringValue, func(t *testing.T) {
			t.Parallel()

			if got := tt.compressionType.String(); got != tt.stringValue {
				t.Errorf("String() = %v, want %v", got, tt.stringValue)
			}
			if got := tt.compressionType.Extension(); got != tt.extension {
				t.Errorf("Extension() = %v, want %v", got, tt.extension)
			}
		})
	}
}

// TestInvalidCompressionReader tests handling of invalid compressed data
func TestInvalidCompressionReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		compressionType CompressionType
	}{
		{name: "Invalid gzip data", compressionType: CompressionGZ},
		{name: "Invalid xz data", compressionType: CompressionXZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(tt.compressionType)
			_, _, err := handler.CreateReader(bytes.NewReader([]byte("not compressed data")))
			if err == nil {
				t.Error("CreateReader() error = nil, want error for invalid data")
			}
		})
	}
}
