package tabview

import (
	"slices"
	"strings"

	"github.com/nao1215/tabview/domain/model"
)

// FilterView selects the rows of a snapshot that contain a search term.
//
// Matching is a case-insensitive substring test against every cell; a row
// matches when at least one of its cells does. An empty term matches every
// row. Row order is always the snapshot's order.
//
// The matching indices are computed lazily and cached until either the
// term or the snapshot changes. FilterView is not safe for concurrent use.
type FilterView struct {
	snapshot *model.Snapshot
	term     string

	// cache
	valid   bool
	indices []int
}

// NewFilterView creates a filter over snapshot with an empty term.
// snapshot may be nil, in which case the view is empty.
func NewFilterView(snapshot *model.Snapshot) *FilterView {
	return &FilterView{snapshot: snapshot}
}

// SetSnapshot replaces the snapshot. The term is kept.
func (f *FilterView) SetSnapshot(snapshot *model.Snapshot) {
	if f.snapshot == snapshot {
		return
	}
	f.snapshot = snapshot
	f.valid = false
}

// Snapshot returns the filtered snapshot, or nil.
func (f *FilterView) Snapshot() *model.Snapshot {
	return f.snapshot
}

// SetTerm replaces the search term.
func (f *FilterView) SetTerm(term string) {
	if f.term == term {
		return
	}
	f.term = term
	f.valid = false
}

// Term returns the current search term.
func (f *FilterView) Term() string {
	return f.term
}

// Apply sets the term and returns the matching row indices.
func (f *FilterView) Apply(term string) []int {
	f.SetTerm(term)
	return f.Indices()
}

// Indices returns the matching row indices in snapshot order.
// The returned slice is a copy.
func (f *FilterView) Indices() []int {
	f.refresh()
	return slices.Clone(f.indices)
}

// Total returns the number of matching rows.
func (f *FilterView) Total() int {
	f.refresh()
	return len(f.indices)
}

// RowAt returns the snapshot row index of the i-th match.
func (f *FilterView) RowAt(i int) int {
	f.refresh()
	return f.indices[i]
}

// Matches reports whether row contains the term in any cell.
func (f *FilterView) Matches(row int) bool {
	if f.snapshot == nil || row < 0 || row >= f.snapshot.NumRows() {
		return false
	}
	return rowContains(f.snapshot, row, strings.ToLower(f.term))
}

func (f *FilterView) refresh() {
	if f.valid {
		return
	}
	f.indices = filterRows(f.snapshot, f.term)
	f.valid = true
}

// filterRows scans every cell of every row once.
func filterRows(snapshot *model.Snapshot, term string) []int {
	if snapshot == nil {
		return nil
	}

	n := snapshot.NumRows()
	if term == "" {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	needle := strings.ToLower(term)
	indices := make([]int, 0)
	for row := range n {
		if rowContains(snapshot, row, needle) {
			indices = append(indices, row)
		}
	}
	return indices
}

// rowContains reports whether any cell of row contains the lowered needle.
func rowContains(snapshot *model.Snapshot, row int, needle string) bool {
	if needle == "" {
		return true
	}
	for col := range snapshot.NumColumns() {
		if strings.Contains(strings.ToLower(snapshot.Cell(row, col)), needle) {
			return true
		}
	}
	return false
}
