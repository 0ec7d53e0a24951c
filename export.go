package tabview

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/tabview/domain/model"
)

// ExtractMode selects which rows are exported
type ExtractMode int

const (
	// ExtractAll exports every row
	ExtractAll ExtractMode = iota
	// ExtractHead exports the first Rows rows
	ExtractHead
	// ExtractTail exports the last Rows rows
	ExtractTail
	// ExtractRandom exports Rows rows chosen at random, kept in file order
	ExtractRandom
)

// String returns the string representation of ExtractMode
func (m ExtractMode) String() string {
	switch m {
	case ExtractHead:
		return "head"
	case ExtractTail:
		return "tail"
	case ExtractRandom:
		return "random"
	default:
		return "all"
	}
}

// ParseExtractMode parses "all", "head", "tail" or "random".
func ParseExtractMode(s string) (ExtractMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ExtractAll, nil
	case "head":
		return ExtractHead, nil
	case "tail":
		return ExtractTail, nil
	case "random", "sample":
		return ExtractRandom, nil
	default:
		return ExtractAll, fmt.Errorf("%w: extract mode %q", ErrUnsupportedFormat, s)
	}
}

// DefaultExportRows is the row count used by head, tail and random exports
const DefaultExportRows = 50

// ExportOptions configures how a snapshot is exported.
//
// Example:
//
//	options := NewExportOptions().
//		WithExtract(ExtractHead, 100).
//		WithExclude("password", "token").
//		WithCompression(CompressionGZ)
//
//	path, err := ExportCSVFile("users_export.csv", snapshot, options)
type ExportOptions struct {
	// Extract selects the rows to export
	Extract ExtractMode
	// Rows is the row count for head, tail and random extraction
	Rows int
	// Delimiter separates fields in CSV output
	Delimiter rune
	// Exclude names columns to leave out; unknown names are ignored
	Exclude []string
	// Compression applies to CSV output
	Compression CompressionType
	// Rand drives random extraction; nil uses a randomly seeded source
	Rand *rand.Rand
}

// NewExportOptions creates default export options: every row and column,
// comma separated, uncompressed.
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Extract:     ExtractAll,
		Rows:        DefaultExportRows,
		Delimiter:   ',',
		Compression: CompressionNone,
	}
}

// WithExtract selects rows by mode. rows is ignored by ExtractAll.
func (o ExportOptions) WithExtract(mode ExtractMode, rows int) ExportOptions {
	o.Extract = mode
	o.Rows = rows
	return o
}

// WithDelimiter sets the CSV field delimiter.
func (o ExportOptions) WithDelimiter(delimiter rune) ExportOptions {
	o.Delimiter = delimiter
	return o
}

// WithExclude leaves the named columns out of the export.
func (o ExportOptions) WithExclude(columns ...string) ExportOptions {
	o.Exclude = append([]string(nil), columns...)
	return o
}

// WithCompression compresses CSV output.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
func (o ExportOptions) WithCompression(compression CompressionType) ExportOptions {
	o.Compression = compression
	return o
}

// WithRand sets the random source used by ExtractRandom.
func (o ExportOptions) WithRand(r *rand.Rand) ExportOptions {
	o.Rand = r
	return o
}

// ParseExcludeList splits a comma separated column list, dropping blanks.
func ParseExcludeList(s string) []string {
	var columns []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			columns = append(columns, name)
		}
	}
	return columns
}

// exportColumns returns the indices of the columns that are not excluded.
func exportColumns(snapshot *model.Snapshot, exclude []string) []int {
	columns := make([]int, 0, snapshot.NumColumns())
	for i, name := range snapshot.Columns() {
		if !slices.Contains(exclude, name) {
			columns = append(columns, i)
		}
	}
	return columns
}

// exportRows returns the indices of the rows to export, in snapshot order.
func exportRows(n int, options ExportOptions) []int {
	count := min(max(options.Rows, 0), n)
	var start int
	switch options.Extract {
	case ExtractHead:
	case ExtractTail:
		start = n - count
	case ExtractRandom:
		r := options.Rand
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling, not security
		}
		rows := r.Perm(n)[:count]
		slices.Sort(rows)
		return rows
	default:
		count = n
	}

	rows := make([]int, count)
	for i := range rows {
		rows[i] = start + i
	}
	return rows
}

// ExportCSV writes the selected rows and columns of snapshot to w as
// delimited text with a header row, compressed as configured.
func ExportCSV(w io.Writer, snapshot *model.Snapshot, options ExportOptions) error {
	if options.Compression == CompressionAuto {
		return fmt.Errorf("%w: export needs an explicit compression", ErrUnsupportedFormat)
	}
	out, closeOut, err := NewCompressionHandler(options.Compression).CreateWriter(w)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(out)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}

	columns := exportColumns(snapshot, options.Exclude)
	header := snapshot.Columns()
	fields := make([]string, len(columns))
	for i, col := range columns {
		fields[i] = header[col]
	}
	if err := writer.Write(fields); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range exportRows(snapshot.NumRows(), options) {
		for i, col := range columns {
			fields[i] = snapshot.Cell(row, col)
		}
		if err := writer.Write(fields); err != nil {
			_ = closeOut()
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return closeOut()
}

// ExportCSVFile writes a CSV export to path. The compression extension is
// appended when path lacks it. It returns the path that was written.
func ExportCSVFile(path string, snapshot *model.Snapshot, options ExportOptions) (written string, err error) {
	if ext := options.Compression.Extension(); ext != "" && !strings.HasSuffix(strings.ToLower(path), ext) {
		path += ext
	}

	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return "", NewErrorContext("export", path).Error(err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := ExportCSV(f, snapshot, options); err != nil {
		return "", NewErrorContext("export", path).Error(err)
	}
	return path, nil
}

// ExportParquet writes the selected rows and columns of snapshot to w as a
// Parquet file. Column types follow the semantic type of each native type;
// cells that do not parse as their column type are written as nulls.
func ExportParquet(w io.Writer, snapshot *model.Snapshot, options ExportOptions) error {
	columns := exportColumns(snapshot, options.Exclude)
	header := snapshot.Columns()
	types := snapshot.NativeTypes()

	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{
			Name:     header[col],
			Type:     arrowTypeFor(model.Classify(types[col])),
			Nullable: true,
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, row := range exportRows(snapshot.NumRows(), options) {
		for i, col := range columns {
			appendArrowValue(builder.Field(i), snapshot.Cell(row, col))
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	writer, err := pqarrow.NewFileWriter(schema, w, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ExportParquetFile writes a Parquet export to path.
func ExportParquetFile(path string, snapshot *model.Snapshot, options ExportOptions) error {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return NewErrorContext("export", path).Error(err)
	}
	// the parquet writer closes f when it is done
	defer func() {
		_ = f.Close()
	}()

	if err := ExportParquet(f, snapshot, options); err != nil {
		return NewErrorContext("export", path).Error(err)
	}
	return nil
}

// arrowTypeFor returns the Arrow type a semantic type is written as.
func arrowTypeFor(semantic model.SemanticType) arrow.DataType {
	switch semantic {
	case model.SemanticInteger:
		return arrow.PrimitiveTypes.Int64
	case model.SemanticDouble:
		return arrow.PrimitiveTypes.Float64
	case model.SemanticBoolean:
		return arrow.FixedWidthTypes.Boolean
	case model.SemanticTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// appendArrowValue appends the parsed cell to b, or a null when it does not parse.
func appendArrowValue(b array.Builder, cell string) {
	value := strings.TrimSpace(cell)
	switch builder := b.(type) {
	case *array.Int64Builder:
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			builder.Append(v)
			return
		}
	case *array.Float64Builder:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			builder.Append(v)
			return
		}
	case *array.BooleanBuilder:
		if v, err := strconv.ParseBool(value); err == nil {
			builder.Append(v)
			return
		}
	case *array.TimestampBuilder:
		if t, ok := model.ParseDatetime(value); ok {
			builder.Append(arrow.Timestamp(t.UnixMicro()))
			return
		}
	case *array.StringBuilder:
		builder.Append(cell)
		return
	}
	b.AppendNull()
}
