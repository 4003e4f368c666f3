package query

type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the pages adjacent to the one returned.
type Pagination struct {
	Next *Page `json:"next,omitempty"`
	Prev *Page `json:"prev,omitempty"`
}

// NewPagination computes next/prev for a window over total matching records.
func NewPagination(page, limit int, total int64) Pagination {
	var p Pagination
	skip := int64(page-1) * int64(limit)
	if skip+int64(limit) < total {
		p.Next = &Page{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		p.Prev = &Page{Page: page - 1, Limit: limit}
	}
	return p
}

// Pagination for the query's own window.
func (q ListQuery) Pagination(total int64) Pagination {
	return NewPagination(q.Page, q.Limit, total)
}
