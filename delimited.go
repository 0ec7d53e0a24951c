package tabview

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tabview/domain/model"
)

// ctxCheckInterval is how many records are decoded between cancellation checks
const ctxCheckInterval = 4096

// errMalformedRecord marks a record the quote parser rejected
var errMalformedRecord = errors.New("malformed record")

// decodedTable is the format-independent output of a decoder
type decodedTable struct {
	header  model.Header
	types   []string // nil means every column is model.NativeObject
	records []model.Record
	skipped int
}

// recordSource yields raw records one at a time
type recordSource interface {
	next() ([]string, error)
}

// csvSource reads RFC 4180 records
type csvSource struct {
	reader *csv.Reader
}

func newCSVSource(r io.Reader, delimiter rune) *csvSource {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // field counts are checked by the parser
	reader.LazyQuotes = true    // a stray quote in an unquoted field is data
	return &csvSource{reader: reader}
}

func (s *csvSource) next() ([]string, error) {
	record, err := s.reader.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %w", errMalformedRecord, parseErr)
		}
		return nil, err
	}
	return record, nil
}

// plainSource splits lines on the delimiter without quote handling
type plainSource struct {
	reader    *bufio.Reader
	delimiter string
}

func newPlainSource(r io.Reader, delimiter rune) *plainSource {
	return &plainSource{reader: bufio.NewReader(r), delimiter: string(delimiter)}
}

func (s *plainSource) next() ([]string, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil {
				return nil, err
			}
			continue // blank lines are not records
		}
		return strings.Split(line, s.delimiter), nil
	}
}

// delimitedParser decodes delimited text into a table
type delimitedParser struct {
	delimiter rune
	quoting   Quoting
	header    bool
	infer     bool
}

// newDelimitedParser creates a parser for path from the load options.
func newDelimitedParser(path string, options LoadOptions) *delimitedParser {
	return &delimitedParser{
		delimiter: options.delimiterFor(path),
		quoting:   options.Quoting,
		header:    options.HeaderPresent,
		infer:     options.TypeInference,
	}
}

// parse reads every record from r. Records whose field count differs from
// the first record are skipped and counted rather than failing the parse.
func (p *delimitedParser) parse(ctx context.Context, r io.Reader) (*decodedTable, error) {
	if p.quoting == QuoteNone {
		return p.parseRecords(ctx, newPlainSource(r, p.delimiter))
	}
	return p.parseRecords(ctx, newCSVSource(r, p.delimiter))
}

// parseRecords builds a table from source. The first record fixes the
// width, so it must parse.
func (p *delimitedParser) parseRecords(ctx context.Context, source recordSource) (*decodedTable, error) {
	table := &decodedTable{}
	width := -1
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := source.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errMalformedRecord) && width < 0 {
			return nil, fmt.Errorf("failed to parse the first row: %w", err)
		}
		if errors.Is(err, errMalformedRecord) {
			table.skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read delimited text: %w", err)
		}

		if width < 0 {
			width = len(fields)
			if p.header {
				table.header = normalizeHeader(fields)
				continue
			}
			table.header = generatedHeader(width)
		}

		if len(fields) != width {
			table.skipped++
			continue
		}
		table.records = append(table.records, model.NewRecord(fields))
	}

	if p.infer {
		table.types = model.InferNativeTypes(len(table.header), table.records)
	}
	return table, nil
}

// generatedHeader returns col1..colN.
func generatedHeader(width int) model.Header {
	header := make(model.Header, width)
	for i := range header {
		header[i] = fmt.Sprintf("col%d", i+1)
	}
	return header
}

// normalizeHeader names empty header cells "Unnamed: i" and suffixes
// repeated names with ".1", ".2", ... so that every column is unique.
func normalizeHeader(fields []string) model.Header {
	header := make(model.Header, len(fields))
	used := make(map[string]bool, len(fields))
	for i, field := range fields {
		name := field
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[strings.TrimSpace(name)] {
			base := name
			for k := 1; used[strings.TrimSpace(name)]; k++ {
				name = fmt.Sprintf("%s.%d", base, k)
			}
		}
		used[strings.TrimSpace(name)] = true
		header[i] = name
	}
	return header
}
