package table

import "expensedash/internal/core"

// Paginate slices one page out of records. size < 1 means DefaultPageSize.
// page is clamped into [1, pageCount] instead of failing; an empty input
// yields page 1 of 0.
func Paginate(records []core.Expense, page, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(records)
	pages := (total + size - 1) / size

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	rows := make([]core.Expense, 0, max(end-start, 0))
	if start < total {
		rows = append(rows, records[start:end]...)
	}
	return Page{
		Rows:        rows,
		TotalCount:  total,
		PageCount:   pages,
		CurrentPage: page,
	}
}
