package tabview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/tabview/domain/model"
)

// Row is one visible row of a page.
type Row struct {
	// Index is the row's position in the snapshot
	Index int
	// Cells holds the rendered cell values
	Cells []string
}

// Page is the renderable state of a session at one moment.
type Page struct {
	Columns []string
	Rows    []Row
	// Number is the 0-based current page
	Number int
	// Count is the number of pages
	Count int
	// First and Last are the 1-based inclusive range shown, (0, 0) when empty
	First int
	Last  int
	// Filtered is the number of rows matching the search term
	Filtered int
	// Total is the number of rows in the snapshot
	Total int
	// Term is the active search term
	Term string
}

// String describes the visible range, e.g. "Rows 11-20 of 95 (page 2/10)".
func (p Page) String() string {
	var sb strings.Builder
	switch {
	case p.Total == 0:
		sb.WriteString("No data")
	case p.Filtered == 0:
		sb.WriteString("No rows match")
	default:
		fmt.Fprintf(&sb, "Rows %d-%d of %d (page %d/%d)", p.First, p.Last, p.Filtered, p.Number+1, max(p.Count, 1))
	}
	if p.Term != "" {
		fmt.Fprintf(&sb, ", %d total, filter %q", p.Total, p.Term)
	}
	return sb.String()
}

// Session holds the state a viewer works with: the current snapshot and
// the filter and page views derived from it. The snapshot is replaced as a
// whole when a load completes, and only by the most recently started load.
//
// All methods are safe for concurrent use, so Apply can be called from a
// Loader completion callback.
type Session struct {
	mu       sync.Mutex
	loader   *Loader
	logger   *slog.Logger
	snapshot *model.Snapshot
	filter   *FilterView
	pages    *PageView

	// source of the current snapshot, reused by Refresh
	path        string
	options     LoadOptions
	skippedRows int
}

// NewSession creates an empty session. A nil loader gets a default one and
// a page size below 1 is clamped to 1.
func NewSession(loader *Loader, pageSize int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	return &Session{
		loader: loader,
		logger: logger,
		filter: NewFilterView(nil),
		pages:  NewPageView(pageSize),
	}
}

// Loader returns the loader used by Open and Refresh.
func (s *Session) Loader() *Loader {
	return s.loader
}

// Open starts loading path in the background. The result becomes visible
// once it is passed to Apply.
//
// Open holds the session lock while starting the load, so an Apply in
// progress finishes before its outcome can be superseded.
func (s *Session) Open(ctx context.Context, path string, options LoadOptions) *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Start(ctx, path, options)
}

// Load opens path and applies the outcome, blocking until it is done.
func (s *Session) Load(ctx context.Context, path string, options LoadOptions) (*LoadResult, error) {
	outcome, err := s.Open(ctx, path, options).Wait(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.Apply(outcome); err != nil {
		return nil, err
	}
	return outcome.Result, nil
}

// Refresh reloads the current source with the options it was loaded with.
// It fails with ErrNoSource when nothing has been loaded.
func (s *Session) Refresh(ctx context.Context) (*Ticket, error) {
	s.mu.Lock()
	path, options := s.path, s.options
	s.mu.Unlock()

	if path == "" {
		return nil, ErrNoSource
	}
	return s.Open(ctx, path, options), nil
}

// Apply installs a completed load. It returns true when the outcome
// replaced the current snapshot. Outcomes of superseded loads are ignored.
// A failed load returns its error and leaves the session untouched.
//
// A successful load clears the search term and returns to the first page;
// the page size is kept.
func (s *Session) Apply(outcome LoadOutcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loader.IsCurrent(outcome.Generation) {
		s.logger.Debug("ignoring stale load", slog.Uint64("generation", outcome.Generation))
		return false, nil
	}
	if outcome.Err != nil {
		return false, outcome.Err
	}

	result := outcome.Result
	s.snapshot = result.Snapshot.WithGeneration(outcome.Generation)
	s.path = result.Path
	s.options = result.Options
	s.skippedRows = result.SkippedRows

	s.filter.SetSnapshot(s.snapshot)
	s.filter.SetTerm("")
	s.pages.SetTotal(s.filter.Total())
	s.pages.First()
	return true, nil
}

// Clear drops the current snapshot and source.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loader.Cancel()
	s.snapshot = nil
	s.path = ""
	s.options = LoadOptions{}
	s.skippedRows = 0
	s.filter.SetSnapshot(nil)
	s.filter.SetTerm("")
	s.pages.SetTotal(0)
}

// Snapshot returns the current snapshot, or nil.
func (s *Session) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Path returns the path of the current snapshot's source.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// SkippedRows returns the malformed row count of the current snapshot.
func (s *Session) SkippedRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skippedRows
}

// Search filters rows by term and returns to the first page.
func (s *Session) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.SetTerm(term)
	s.pages.SetTotal(s.filter.Total())
	s.pages.First()
}

// SetPageSize changes the page size and returns to the first page.
func (s *Session) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages.SetPageSize(n)
}

// Next moves to the next page. It returns false on the last page.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Next()
}

// Previous moves to the previous page. It returns false on the first page.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages.Previous()
}

// GoTo moves to the 0-based page, clamped into range.
func (s *Session) GoTo(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages.GoTo(page)
}

// First moves to the first page.
func (s *Session) First() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages.First()
}

// Last moves to the last page.
func (s *Session) Last() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages.GoTo(s.pages.PageCount() - 1)
}

// CurrentPage returns the rows and position of the current page.
func (s *Session) CurrentPage() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := Page{
		Number: s.pages.Page(),
		Count:  s.pages.PageCount(),
		Term:   s.filter.Term(),
	}
	if s.snapshot == nil {
		return page
	}

	page.Columns = s.snapshot.Columns()
	page.Total = s.snapshot.NumRows()
	page.Filtered = s.filter.Total()
	page.First, page.Last = s.pages.VisibleRange()

	start, end := s.pages.Bounds()
	page.Rows = make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		index := s.filter.RowAt(i)
		page.Rows = append(page.Rows, Row{Index: index, Cells: s.snapshot.Row(index)})
	}
	return page
}
