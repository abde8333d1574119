package table

import (
	"sort"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/normalize"
)

// Sort orders records in place by field. The sort is stable: records with
// equal keys keep their relative order in either direction. amount sorts
// numerically, date chronologically and every other field as a
// case-sensitive string.
func Sort(records []core.Expense, field string, dir SortDir) {
	cmp := comparator(field)
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

// Sorted returns a sorted copy, leaving records untouched.
func Sorted(records []core.Expense, field string, dir SortDir) []core.Expense {
	out := make([]core.Expense, len(records))
	copy(out, records)
	Sort(out, field, dir)
	return out
}

func comparator(field string) func(a, b core.Expense) int {
	switch field {
	case normalize.FieldAmount:
		return func(a, b core.Expense) int { return compareFloat(a.Amount, b.Amount) }
	case normalize.FieldDate:
		return compareDate
	}
	get := stringField(field)
	return func(a, b core.Expense) int { return strings.Compare(get(a), get(b)) }
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareDate(a, b core.Expense) int {
	ta, okA := core.ParseISODate(a.Date)
	tb, okB := core.ParseISODate(b.Date)
	if !okA || !okB {
		return strings.Compare(a.Date, b.Date)
	}
	return ta.Compare(tb)
}

func stringField(field string) func(core.Expense) string {
	switch field {
	case normalize.FieldMode:
		return func(e core.Expense) string { return e.Mode }
	case normalize.FieldCategory:
		return func(e core.Expense) string { return e.Category }
	case normalize.FieldSubCategory:
		return func(e core.Expense) string { return e.SubCategory }
	case normalize.FieldFor:
		return func(e core.Expense) string { return e.For }
	case normalize.FieldDescription:
		return func(e core.Expense) string { return e.Description }
	case normalize.FieldPriority:
		return func(e core.Expense) string { return e.Priority }
	case normalize.FieldAvoidable:
		return func(e core.Expense) string { return e.Avoidable }
	case normalize.FieldFrequency:
		return func(e core.Expense) string { return e.Frequency }
	default:
		return func(e core.Expense) string { return e.Date }
	}
}
