// Package pagination pages whole collections in memory. The bookshop
// backend returns complete lists, so the console slices them itself.
package pagination

const (
	defaultPage    = 1
	defaultPerPage = 15
	maxPerPage     = 100
)

// Pagination describes one page of a collection
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams are the page and per_page query parameters
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns the first page at the default size
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: defaultPage, PerPage: defaultPerPage}
}

// Validate clamps the parameters into range
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = defaultPerPage
	case p.PerPage > maxPerPage:
		p.PerPage = maxPerPage
	}
}

// PaginatedResult is one page of items with its position
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Paginate returns a copy of the requested page of items. A page past the
// end is empty rather than an error.
func Paginate[T any](items []T, params *PaginationParams) *PaginatedResult[T] {
	if params == nil {
		params = DefaultPagination()
	}
	params.Validate()

	total := len(items)
	start := min((params.Page-1)*params.PerPage, total)
	end := min(start+params.PerPage, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	totalPages := (total + params.PerPage - 1) / params.PerPage
	return &PaginatedResult[T]{
		Items: page,
		Pagination: &Pagination{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			Total:       int64(total),
			TotalPages:  totalPages,
			HasNext:     params.Page < totalPages,
			HasPrev:     params.Page > 1,
		},
	}
}
