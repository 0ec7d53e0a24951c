package model

import (
	"fmt"
	"strings"
)

// Snapshot is one immutable loaded table: column names, a native type tag
// per column and rectangular rows. A Snapshot is never modified after
// construction; reloading a source produces a new Snapshot.
type Snapshot struct {
	// source identifies where the data came from, e.g. "sales.csv.gz"
	source string
	// generation is assigned by the session that installs the snapshot
	generation uint64
	header     Header
	types      []string
	records    []Record
}

// NewSnapshot creates a Snapshot after validating its shape.
// A nil nativeTypes slice tags every column as NativeObject.
func NewSnapshot(source string, header Header, nativeTypes []string, records []Record) (*Snapshot, error) {
	if err := validateColumnNames(header); err != nil {
		return nil, err
	}

	if nativeTypes == nil {
		nativeTypes = make([]string, len(header))
		for i := range nativeTypes {
			nativeTypes[i] = NativeObject
		}
	}
	if len(nativeTypes) != len(header) {
		return nil, fmt.Errorf("%d native types for %d columns", len(nativeTypes), len(header))
	}

	for i, record := range records {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRow, i, len(record), len(header))
		}
	}

	return &Snapshot{
		source:  source,
		header:  append(Header(nil), header...),
		types:   append([]string(nil), nativeTypes...),
		records: records,
	}, nil
}

// validateColumnNames checks for duplicate column names.
// Column name comparison is case-sensitive.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if seen[trimmed] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[trimmed] = true
	}
	return nil
}

// WithGeneration returns a copy of the snapshot stamped with generation.
// Row data is shared, which is safe because neither copy mutates it.
func (s *Snapshot) WithGeneration(generation uint64) *Snapshot {
	cp := *s
	cp.generation = generation
	return &cp
}

// Source returns the source identifier.
func (s *Snapshot) Source() string {
	return s.source
}

// Generation returns the generation the snapshot was installed with.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Columns returns a copy of the column names.
func (s *Snapshot) Columns() Header {
	return append(Header(nil), s.header...)
}

// NativeTypes returns a copy of the per-column native type tags.
func (s *Snapshot) NativeTypes() []string {
	return append([]string(nil), s.types...)
}

// NumColumns returns the number of columns.
func (s *Snapshot) NumColumns() int {
	return len(s.header)
}

// NumRows returns the number of rows.
func (s *Snapshot) NumRows() int {
	return len(s.records)
}

// IsEmpty reports whether the snapshot has no rows.
func (s *Snapshot) IsEmpty() bool {
	return len(s.records) == 0
}

// Cell returns the string rendering of the cell at row, col.
func (s *Snapshot) Cell(row, col int) string {
	return s.records[row][col]
}

// Row returns a copy of the row at index i.
func (s *Snapshot) Row(i int) Record {
	return append(Record(nil), s.records[i]...)
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Snapshot) ColumnIndex(name string) int {
	for i, col := range s.header {
		if col == name {
			return i
		}
	}
	return -1
}
