package calendar

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Page describes one page of items.
type Page[T any] struct {
	Items    []T // items on the current page
	Page     int // page number, starting at 1
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int // total number of items across all pages
}

// NormalizePage applies defaults to out-of-range page parameters.
func NormalizePage(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize
}

// Offset returns the number of items preceding the page.
func Offset(page, pageSize int) int {
	page, pageSize = NormalizePage(page, pageSize)
	return (page - 1) * pageSize
}

// Paginate slices items for the requested page and fills in the metadata.
// page starts at 1. Invalid values fall back to defaults.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	page, pageSize = NormalizePage(page, pageSize)
	total := len(items)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}

// PageOf wraps items that were already cut by the storage layer.
func PageOf[T any](items []T, page, pageSize int, total int64) Page[T] {
	page, pageSize = NormalizePage(page, pageSize)
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  int64((page-1)*pageSize+len(items)) < total,
		HasPrev:  page > 1,
		Total:    int(total),
	}
}
