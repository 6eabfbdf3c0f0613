package model

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Page represents a generic paginated response
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPage creates a new Page instance with calculated values
func NewPage[T any](content []T, page int, limit int, total int64) *Page[T] {
	pages := 0
	if limit > 0 && total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if content == nil {
		content = []T{}
	}

	return &Page[T]{
		Data: content,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}

// MapPage converts every element of a page while keeping its pagination.
func MapPage[T any, R any](page *Page[T], mapper func(T) R) *Page[R] {
	data := make([]R, 0, len(page.Data))
	for _, item := range page.Data {
		data = append(data, mapper(item))
	}
	return &Page[R]{Data: data, Pagination: page.Pagination}
}
