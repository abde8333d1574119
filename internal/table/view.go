package table

import (
	"slices"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/normalize"
)

// DefaultPageSize is used when a view state carries no usable page size.
const DefaultPageSize = 10

// SortDir is a sort direction.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// SortFields are the record fields a table can be sorted by.
var SortFields = []string{
	normalize.FieldDate, normalize.FieldMode, normalize.FieldCategory,
	normalize.FieldSubCategory, normalize.FieldFor, normalize.FieldAmount,
	normalize.FieldDescription, normalize.FieldPriority, normalize.FieldAvoidable,
	normalize.FieldFrequency,
}

// Filters are exact-match constraints; an empty field means no constraint.
type Filters struct {
	Category  string `json:"category"`
	Mode      string `json:"mode"`
	Priority  string `json:"priority"`
	Avoidable string `json:"avoidable"`
}

// ViewState is everything that decides which rows a table shows. It is a
// plain value: callers keep it and pass it back on every recomputation.
type ViewState struct {
	Search    string  `json:"search"`
	Filters   Filters `json:"filters"`
	SortField string  `json:"sortField"`
	SortDir   SortDir `json:"sortDir"`
	Page      int     `json:"page"`
	PageSize  int     `json:"pageSize"`
}

// Page is one page of a filtered and sorted view.
type Page struct {
	Rows        []core.Expense `json:"rows"`
	TotalCount  int            `json:"totalCount"`
	PageCount   int            `json:"pageCount"`
	CurrentPage int            `json:"currentPage"`
}

// DefaultViewState shows the newest records first.
func DefaultViewState() ViewState {
	return ViewState{
		SortField: normalize.FieldDate,
		SortDir:   Desc,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// ToggleSort selects field. Selecting the current field flips the
// direction; any other field starts ascending. Pagination restarts.
func (v ViewState) ToggleSort(field string) ViewState {
	if field == v.SortField {
		if v.SortDir == Asc {
			v.SortDir = Desc
		} else {
			v.SortDir = Asc
		}
	} else {
		v.SortField = field
		v.SortDir = Asc
	}
	v.Page = 1
	return v
}

// Sanitized replaces unknown sort fields, directions and sizes with defaults.
func (v ViewState) Sanitized() ViewState {
	def := DefaultViewState()
	if !slices.Contains(SortFields, v.SortField) {
		v.SortField = def.SortField
		v.SortDir = def.SortDir
	}
	switch SortDir(strings.ToLower(string(v.SortDir))) {
	case Asc:
		v.SortDir = Asc
	case Desc:
		v.SortDir = Desc
	default:
		v.SortDir = def.SortDir
	}
	if v.PageSize < 1 {
		v.PageSize = DefaultPageSize
	}
	if v.Page < 1 {
		v.Page = 1
	}
	return v
}

// View filters, sorts and pages records. It also returns the full
// filtered and sorted sequence, which is what exports write.
func View(records []core.Expense, state ViewState) (Page, []core.Expense) {
	state = state.Sanitized()
	rows := Apply(records, state.Filters, state.Search)
	Sort(rows, state.SortField, state.SortDir)
	return Paginate(rows, state.Page, state.PageSize), rows
}

// FilterOptions are the distinct values offered by the filter dropdowns.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Modes      []string `json:"modes"`
	Priorities []string `json:"priorities"`
}

// Options lists distinct categories, modes and priorities in first-seen order.
func Options(records []core.Expense) FilterOptions {
	return FilterOptions{
		Categories: distinct(records, func(e core.Expense) string { return e.Category }),
		Modes:      distinct(records, func(e core.Expense) string { return e.Mode }),
		Priorities: distinct(records, func(e core.Expense) string { return e.Priority }),
	}
}

func distinct(records []core.Expense, key func(core.Expense) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, e := range records {
		k := key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
