package tabview

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Quoting controls how quote characters in delimited text are treated
type Quoting int

const (
	// QuoteMinimal honours RFC 4180 quoting where present
	QuoteMinimal Quoting = iota
	// QuoteAll expects quoted fields; on read it behaves like QuoteMinimal
	QuoteAll
	// QuoteNone treats quote characters as ordinary data
	QuoteNone
)

// String returns the string representation of Quoting
func (q Quoting) String() string {
	switch q {
	case QuoteAll:
		return "all"
	case QuoteNone:
		return "none"
	default:
		return "minimal"
	}
}

// ParseQuoting parses "minimal", "all" or "none".
func ParseQuoting(s string) (Quoting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minimal":
		return QuoteMinimal, nil
	case "all", "quote all":
		return QuoteAll, nil
	case "none":
		return QuoteNone, nil
	default:
		return QuoteMinimal, fmt.Errorf("%w: quoting %q", ErrUnsupportedFormat, s)
	}
}

// DefaultEncoding is the text encoding used when none is configured
const DefaultEncoding = "utf-8"

// LoadOptions configures how a source file is decoded.
//
// Example:
//
//	options := NewLoadOptions().
//		WithDelimiter('|').
//		WithEncoding("windows-1252").
//		WithHeader(false)
//
//	result, err := Load(ctx, "export.txt", options)
type LoadOptions struct {
	// Format selects the decoder; FormatAuto detects it from the extension
	Format Format
	// Delimiter separates fields in delimited text; 0 uses the extension's default
	Delimiter rune
	// Encoding names the character encoding of delimited text
	Encoding string
	// HeaderPresent treats the first record as column names
	HeaderPresent bool
	// TypeInference infers native column types from text cells
	TypeInference bool
	// Compression selects the decompressor; CompressionAuto detects it
	Compression CompressionType
	// Quoting controls quote handling in delimited text
	Quoting Quoting
}

// NewLoadOptions creates default load options: auto format and
// compression, UTF-8, header row present, type inference enabled,
// minimal quoting.
func NewLoadOptions() LoadOptions {
	return LoadOptions{
		Format:        FormatAuto,
		Encoding:      DefaultEncoding,
		HeaderPresent: true,
		TypeInference: true,
		Compression:   CompressionAuto,
		Quoting:       QuoteMinimal,
	}
}

// WithFormat forces a decoder instead of detecting it from the extension.
func (o LoadOptions) WithFormat(format Format) LoadOptions {
	o.Format = format
	return o
}

// WithDelimiter sets the field delimiter for delimited text.
func (o LoadOptions) WithDelimiter(delimiter rune) LoadOptions {
	o.Delimiter = delimiter
	return o
}

// WithEncoding sets the character encoding, e.g. "iso-8859-1".
func (o LoadOptions) WithEncoding(encoding string) LoadOptions {
	o.Encoding = encoding
	return o
}

// WithHeader sets whether the first record holds column names.
// Without a header, columns are named col1..colN.
func (o LoadOptions) WithHeader(present bool) LoadOptions {
	o.HeaderPresent = present
	return o
}

// WithTypeInference enables or disables type inference for text sources.
// When disabled every column keeps the "object" native type.
func (o LoadOptions) WithTypeInference(enabled bool) LoadOptions {
	o.TypeInference = enabled
	return o
}

// WithCompression sets the compression of the source.
//
// Options:
//   - CompressionAuto: detect from extension or content (default)
//   - CompressionNone: read the bytes as they are
//   - CompressionGZ, CompressionBZ2, CompressionXZ, CompressionZSTD
func (o LoadOptions) WithCompression(compression CompressionType) LoadOptions {
	o.Compression = compression
	return o
}

// WithQuoting sets the quoting mode for delimited text.
func (o LoadOptions) WithQuoting(quoting Quoting) LoadOptions {
	o.Quoting = quoting
	return o
}

// delimiterFor returns the delimiter to use for path.
func (o LoadOptions) delimiterFor(path string) rune {
	if o.Delimiter != 0 {
		return o.Delimiter
	}
	if d, ok := defaultDelimiter(path); ok {
		return d
	}
	return ','
}

// validate reports options that cannot be honoured.
func (o LoadOptions) validate() error {
	if d := o.Delimiter; d != 0 {
		if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError || !utf8.ValidRune(d) {
			return fmt.Errorf("%w: invalid delimiter %q", ErrUnsupportedFormat, d)
		}
	}
	if o.Quoting < QuoteMinimal || o.Quoting > QuoteNone {
		return fmt.Errorf("%w: quoting %d", ErrUnsupportedFormat, o.Quoting)
	}
	if o.Compression < CompressionNone || o.Compression > CompressionAuto {
		return fmt.Errorf("%w: compression %d", ErrUnsupportedFormat, o.Compression)
	}
	return nil
}

// ParseDelimiter parses a delimiter given as text. It accepts a single
// character or the escapes "\t", "tab", "pipe", "comma" and "semicolon".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	case "pipe":
		return '|', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", ErrUnsupportedFormat, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
