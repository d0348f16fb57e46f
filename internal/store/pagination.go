package store

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int // The number of items per page (defaults to 50 with a maximum of 200)
	Offset int // Number of items to skip (defaults to 0)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Limit:  50,
		Offset: 0,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = 50
	}

	if p.Limit > 200 {
		p.Limit = 200
	}

	if p.Offset < 0 {
		p.Offset = 0
	}
}

// page slices items according to params and wraps them in a PaginatedResult.
// The caller passes the full filtered set; Total reflects its length.
func page[T any](items []T, params PaginationParams) *PaginatedResult[T] {
	params.Validate()

	total := len(items)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	sliced := items[start:end]
	if sliced == nil {
		// Keep JSON output as [] rather than null
		sliced = []T{}
	}

	return &PaginatedResult[T]{
		Items:   sliced,
		Total:   total,
		HasMore: end < total,
	}
}
