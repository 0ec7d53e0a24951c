package tabview

import (
	"fmt"
	"strings"

	"github.com/nao1215/tabview/domain/model"
)

// TypeMismatch is a column present in both schemas with different semantic types.
type TypeMismatch struct {
	Name   string
	First  model.SemanticType
	Second model.SemanticType
}

// String returns "name: first vs second".
func (m TypeMismatch) String() string {
	return fmt.Sprintf("%s: %s vs %s", m.Name, m.First, m.Second)
}

// OrderMismatch is a column whose position among the common columns
// differs between the schemas. Positions are 0-based.
type OrderMismatch struct {
	Name           string
	FirstPosition  int
	SecondPosition int
}

// String renders the positions 1-based.
func (m OrderMismatch) String() string {
	return fmt.Sprintf("%s: position %d in file 1 vs position %d in file 2",
		m.Name, m.FirstPosition+1, m.SecondPosition+1)
}

// SchemaDiff is the result of comparing two serialized schemas.
type SchemaDiff struct {
	// OnlyInFirst lists columns missing from the second schema, in first-schema order
	OnlyInFirst []string
	// OnlyInSecond lists columns missing from the first schema, in second-schema order
	OnlyInSecond []string
	// TypeMismatches is in first-schema order
	TypeMismatches []TypeMismatch
	// OrderMismatches is in first-schema order
	OrderMismatches []OrderMismatch
}

// HasDifferences reports whether any finding exists.
func (d *SchemaDiff) HasDifferences() bool {
	return d.TotalDifferences() > 0
}

// TotalDifferences returns the number of findings.
func (d *SchemaDiff) TotalDifferences() int {
	return len(d.OnlyInFirst) + len(d.OnlyInSecond) + len(d.TypeMismatches) + len(d.OrderMismatches)
}

// CompareSchemas compares a and b in both directions.
//
// Order mismatches are computed over the columns common to both schemas:
// each common column's position within that subsequence is compared, so
// a column added or removed elsewhere does not mark later columns as moved.
// When a name repeats within one schema, its first occurrence counts.
func CompareSchemas(a, b *SerializedSchema) *SchemaDiff {
	namesA, typesA := indexSchema(a)
	namesB, typesB := indexSchema(b)

	diff := &SchemaDiff{
		OnlyInFirst:     []string{},
		OnlyInSecond:    []string{},
		TypeMismatches:  []TypeMismatch{},
		OrderMismatches: []OrderMismatch{},
	}

	for _, name := range namesA {
		if _, ok := typesB[name]; !ok {
			diff.OnlyInFirst = append(diff.OnlyInFirst, name)
		}
	}
	for _, name := range namesB {
		if _, ok := typesA[name]; !ok {
			diff.OnlyInSecond = append(diff.OnlyInSecond, name)
		}
	}

	for _, name := range namesA {
		typeB, ok := typesB[name]
		if ok && typesA[name] != typeB {
			diff.TypeMismatches = append(diff.TypeMismatches, TypeMismatch{
				Name:   name,
				First:  typesA[name],
				Second: typeB,
			})
		}
	}

	commonA := commonPositions(namesA, typesB)
	commonB := commonPositions(namesB, typesA)
	for _, name := range namesA {
		posA, ok := commonA[name]
		if !ok {
			continue
		}
		if posB := commonB[name]; posA != posB {
			diff.OrderMismatches = append(diff.OrderMismatches, OrderMismatch{
				Name:           name,
				FirstPosition:  posA,
				SecondPosition: posB,
			})
		}
	}

	return diff
}

// indexSchema returns the distinct column names in order and their types.
func indexSchema(s *SerializedSchema) ([]string, map[string]model.SemanticType) {
	names := make([]string, 0, len(s.Schema))
	types := make(map[string]model.SemanticType, len(s.Schema))
	for _, column := range s.Schema {
		if _, seen := types[column.Name]; seen {
			continue
		}
		names = append(names, column.Name)
		types[column.Name] = column.SemanticType
	}
	return names, types
}

// commonPositions numbers the names that also appear in other, keeping
// their relative order.
func commonPositions(names []string, other map[string]model.SemanticType) map[string]int {
	positions := make(map[string]int, len(names))
	for _, name := range names {
		if _, ok := other[name]; ok {
			positions[name] = len(positions)
		}
	}
	return positions
}

// Report renders the diff as text. It lists each non-empty finding group
// under a "--- <group> (<count>) ---" heading, or states that the schemas
// are identical.
func (d *SchemaDiff) Report(a, b *SerializedSchema) string {
	var sb strings.Builder
	if !d.HasDifferences() {
		sb.WriteString("Both schemas are identical (columns, types, and order match).\n\n")
		fmt.Fprintf(&sb, "Total columns: %d\n", a.TotalColumns)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Schemas differ: %d difference(s) found.\n\n", d.TotalDifferences())
	fmt.Fprintf(&sb, "File 1 columns: %d\n", a.TotalColumns)
	fmt.Fprintf(&sb, "File 2 columns: %d\n", b.TotalColumns)

	writeSection := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n--- %s (%d) ---\n", title, len(lines))
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	writeSection("Only in first file", d.OnlyInFirst)
	writeSection("Only in second file", d.OnlyInSecond)
	writeSection("Type mismatches", stringsOf(d.TypeMismatches))
	writeSection("Order mismatches", stringsOf(d.OrderMismatches))
	return sb.String()
}

func stringsOf[T fmt.Stringer](items []T) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.String()
	}
	return lines
}
