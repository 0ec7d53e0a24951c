package tabview

// DefaultPageSize is the number of rows shown per page when not configured
const DefaultPageSize = 50

// PageView windows a sequence of total items into fixed-size pages.
//
// Invariant: when Total() > 0, 0 <= Page() < PageCount(); when Total() == 0,
// Page() == 0 and the page is empty. Changing the page size or the total
// resets the current page to the first page.
type PageView struct {
	pageSize int
	page     int
	total    int
}

// NewPageView creates a view with the given page size, clamped to at least 1.
func NewPageView(pageSize int) *PageView {
	p := &PageView{}
	p.SetPageSize(pageSize)
	return p
}

// SetPageSize sets the page size, clamped to at least 1, and returns to the first page.
func (p *PageView) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	p.pageSize = n
	p.page = 0
}

// SetTotal sets the number of items being paged. A changed total returns
// to the first page.
func (p *PageView) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	if total != p.total {
		p.total = total
		p.page = 0
	}
}

// GoTo moves to page, clamped to [0, PageCount()-1], or 0 when there are no pages.
func (p *PageView) GoTo(page int) {
	last := p.PageCount() - 1
	switch {
	case last < 0, page < 0:
		p.page = 0
	case page > last:
		p.page = last
	default:
		p.page = page
	}
}

// First moves to the first page.
func (p *PageView) First() {
	p.page = 0
}

// Next moves forward one page. It returns false on the last page.
func (p *PageView) Next() bool {
	if p.page+1 >= p.PageCount() {
		return false
	}
	p.page++
	return true
}

// Previous moves back one page. It returns false on the first page.
func (p *PageView) Previous() bool {
	if p.page == 0 {
		return false
	}
	p.page--
	return true
}

// PageCount returns ceil(total/pageSize), or 0 when total is 0.
func (p *PageView) PageCount() int {
	if p.total == 0 {
		return 0
	}
	return (p.total + p.pageSize - 1) / p.pageSize
}

// Page returns the 0-based current page.
func (p *PageView) Page() int {
	return p.page
}

// PageSize returns the page size.
func (p *PageView) PageSize() int {
	return p.pageSize
}

// Total returns the number of items being paged.
func (p *PageView) Total() int {
	return p.total
}

// Bounds returns the half-open, 0-based range [start, end) of the current page.
func (p *PageView) Bounds() (int, int) {
	if p.total == 0 {
		return 0, 0
	}
	start := p.page * p.pageSize
	end := min(start+p.pageSize, p.total)
	return start, end
}

// VisibleRange returns the 1-based inclusive range of the current page,
// or (0, 0) when there is nothing to show.
func (p *PageView) VisibleRange() (int, int) {
	start, end := p.Bounds()
	if start == end {
		return 0, 0
	}
	return start + 1, end
}
