package tabview

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents the decoding family of a source file
type Format int

const (
	// FormatAuto detects the format from the file extension
	FormatAuto Format = iota
	// FormatColumnar represents Parquet files
	FormatColumnar
	// FormatDelimited represents CSV, TSV and delimited text files
	FormatDelimited
	// FormatSpreadsheet represents Excel XLSX files (first sheet)
	FormatSpreadsheet
	// FormatUnsupported represents anything else
	FormatUnsupported
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatColumnar:
		return "columnar-binary"
	case FormatDelimited:
		return "delimited-text"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return "unsupported"
	}
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "parquet", "columnar", "columnar-binary":
		return FormatColumnar, nil
	case "csv", "tsv", "txt", "text", "delimited", "delimited-text":
		return FormatDelimited, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	default:
		return FormatUnsupported, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extTXT is the delimited text file extension
	extTXT = ".txt"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// compressionExts lists every compression suffix the loader understands.
var compressionExts = []string{extGZ, extBZ2, extXZ, extZSTD}

// trimCompressionExt removes a trailing compression extension, if any,
// and returns the remaining path together with the removed suffix.
func trimCompressionExt(path string) (string, string) {
	lower := strings.ToLower(path)
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)], path[len(path)-len(ext):]
		}
	}
	return path, ""
}

// DetectFormat detects the format from the extension, ignoring any
// compression suffix ("data.csv.gz" is FormatDelimited).
func DetectFormat(path string) Format {
	base, _ := trimCompressionExt(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case extParquet:
		return FormatColumnar
	case extCSV, extTSV, extTXT:
		return FormatDelimited
	case extXLSX:
		return FormatSpreadsheet
	default:
		return FormatUnsupported
	}
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(path string) bool {
	return DetectFormat(path) != FormatUnsupported
}

// defaultDelimiter returns the delimiter implied by the file extension.
// TSV files use a tab and everything else a comma; ".txt" has no
// convention and the caller's configured delimiter applies.
func defaultDelimiter(path string) (rune, bool) {
	base, _ := trimCompressionExt(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case extTSV:
		return '\t', true
	case extCSV:
		return ',', true
	default:
		return 0, false
	}
}

// SplitSourceName splits a path into its base name and extension without
// the leading dot. A compression suffix is kept as part of the extension:
// "/data/sales.csv.gz" yields ("sales", "csv.gz").
func SplitSourceName(path string) (string, string) {
	fileName := filepath.Base(path)
	rest, compression := trimCompressionExt(fileName)
	ext := filepath.Ext(rest)
	name := strings.TrimSuffix(rest, ext)
	ext = strings.TrimPrefix(ext+compression, ".")
	if name == "" {
		// dotfiles such as ".csv" have no extension of their own
		return fileName, ""
	}
	return name, ext
}

// SourceIdentifier returns "name.ext" for path, the identifier recorded in
// serialized schemas as data_file.
func SourceIdentifier(path string) string {
	name, ext := SplitSourceName(path)
	if ext == "" {
		return name
	}
	return name + "." + ext
}
