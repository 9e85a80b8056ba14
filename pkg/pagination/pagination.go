package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 12
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
	// DefaultWindow is the number of page links centered on the current page.
	DefaultWindow = 5
	// Ellipsis marks a gap of two or more pages in a visible-page sequence.
	Ellipsis = -1
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the window of an executed listing query.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the requested page to a 1-indexed value.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Normalize returns params with both fields clamped to usable values.
func (p Params) Normalize() Params {
	return Params{Page: NormalizePage(p.Page), Limit: NormalizeLimit(p.Limit)}
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// NewMeta derives page metadata from a total row count. The current page is
// clamped into [1, totalPages] so a filter change that shrinks the result set
// never leaves the caller pointing past the end.
func NewMeta(params Params, totalItems int64) Meta {
	n := params.Normalize()
	totalPages := int((totalItems + int64(n.Limit) - 1) / int64(n.Limit))
	page := n.Page
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return Meta{
		Page:       page,
		Limit:      n.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// HasPrev reports whether a previous page exists.
func (m Meta) HasPrev() bool {
	return m.Page > 1
}

// HasNext reports whether a further page exists.
func (m Meta) HasNext() bool {
	return m.Page < m.TotalPages
}

// VisiblePages returns the ordered page numbers a pager should render: a
// window of windowSize pages centered on current, clamped to [1, total] and
// re-expanded from the opposite bound when clamping shrank it, plus explicit
// first and last pages. A gap of two or more pages collapses to Ellipsis; a
// gap of exactly one page shows the page number instead. Returns nil when
// total <= 1, meaning the control renders nothing.
func VisiblePages(current, total, windowSize int) []int {
	if total <= 1 {
		return nil
	}
	if windowSize <= 0 {
		windowSize = DefaultWindow
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - windowSize/2
	end := start + windowSize - 1
	if start < 1 {
		start = 1
		end = start + windowSize - 1
	}
	if end > total {
		end = total
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, windowSize+4)
	switch {
	case start <= 1:
		// window already touches the first page
	case start == 2:
		pages = append(pages, 1)
	case start == 3:
		pages = append(pages, 1, 2)
	default:
		pages = append(pages, 1, Ellipsis)
	}

	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	switch {
	case end >= total:
	case end == total-1:
		pages = append(pages, total)
	case end == total-2:
		pages = append(pages, total-1, total)
	default:
		pages = append(pages, Ellipsis, total)
	}

	return pages
}
