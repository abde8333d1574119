package table

import (
	"strings"

	"expensedash/internal/core"
)

// Apply returns the records matching both the filters and the search term,
// in input order, as a new slice. Applying it again to its own result
// returns the same rows.
func Apply(records []core.Expense, f Filters, search string) []core.Expense {
	needle := strings.ToLower(search)
	out := make([]core.Expense, 0, len(records))
	for _, e := range records {
		if f.Match(e) && matchesSearch(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

// Match reports whether e satisfies every non-empty filter exactly.
func (f Filters) Match(e core.Expense) bool {
	return eq(f.Category, e.Category) &&
		eq(f.Mode, e.Mode) &&
		eq(f.Priority, e.Priority) &&
		eq(f.Avoidable, e.Avoidable)
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

func eq(want, got string) bool {
	return want == "" || want == got
}

// matchesSearch is a case-insensitive substring test over all field values
// joined by spaces. needle must already be lowercase.
func matchesSearch(e core.Expense, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(searchText(e)), needle)
}

func searchText(e core.Expense) string {
	return strings.Join([]string{
		e.Date, e.Mode, e.Category, e.SubCategory, e.For,
		core.FormatAmountPlain(e.Amount),
		e.Description, e.Priority, e.Avoidable, e.Frequency,
	}, " ")
}
