package pipeline

type Page[T any] struct {
	Items       []T
	Page        int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Paginate returns the 1-based page of items. Pages past the end are empty.
func Paginate[T any](items []T, perPage, page int) Page[T] {
	if perPage <= 0 {
		perPage = len(items)
		if perPage == 0 {
			perPage = 1
		}
	}
	if page < 1 {
		page = 1
	}
	total := (len(items) + perPage - 1) / perPage

	start := (page - 1) * perPage
	out := []T{}
	if start < len(items) {
		end := min(start+perPage, len(items))
		out = append(out, items[start:end]...)
	}
	return Page[T]{
		Items:       out,
		Page:        page,
		TotalPages:  total,
		HasNext:     page < total,
		HasPrevious: page > 1,
	}
}
