package service

// Pagination describes the window applied to a filtered listing.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

const (
	defaultPageLimit = 20
	defaultOffset    = 0
)

// paginate slices [offset, offset+limit) out of the filtered set and
// reports whether records remain past the window.
func paginate[T any](items []T, limit, offset int) ([]T, Pagination) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = defaultOffset
	}

	total := len(items)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
