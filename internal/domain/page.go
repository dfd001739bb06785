package domain

// PaginationParams carries page/limit values from the HTTP layer to the
// query layer. Page is 1-indexed. Limit is capped at MaxLimit.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return. Zero means no paging.
	Limit int
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1, limit=DefaultLimit; a limit above
// MaxLimit is capped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxLimit)
	}
	return p
}

// Window returns the [start, end) bounds of the page inside a result of n
// items. An out-of-range page yields an empty window at n.
func (p PaginationParams) Window(n int) (start, end int) {
	if p.Limit <= 0 {
		return 0, n
	}
	page := max(p.Page, 1)
	start = min((page-1)*p.Limit, n)
	end = min(start+p.Limit, n)
	return start, end
}
