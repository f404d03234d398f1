package models

const (
	DefaultPage = 1
	MaxPageSize = 200
)

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{CurrentPage: page, PageSize: pageSize, TotalCount: total, TotalPages: pages}
}

// NormalizePage clamps page and size, using def when size is unset.
func NormalizePage(page, size, def int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = def
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
