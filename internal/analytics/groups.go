package analytics

import "expensedash/internal/core"

// AmountLabel is the dataset label of single-series bar charts.
const AmountLabel = "Amount Spent"

// Group is one label and its summed amount.
type Group struct {
	Label string
	Total float64
}

// SumBy groups records by key and sums their amounts. Groups appear in the
// order their label is first seen.
func SumBy(records []core.Expense, key func(core.Expense) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, e := range records {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Label: k})
		}
		groups[i].Total += e.Amount
	}
	return groups
}

// Top returns the label with the largest total. Ties keep the first-seen
// label. Empty input, or an empty winning label, yields core.NotAvailable.
func Top(groups []Group) string {
	if len(groups) == 0 {
		return core.NotAvailable
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Total > best.Total {
			best = g
		}
	}
	if best.Label == "" {
		return core.NotAvailable
	}
	return best.Label
}

func category(e core.Expense) string    { return e.Category }
func subCategory(e core.Expense) string { return e.SubCategory }
func mode(e core.Expense) string        { return e.Mode }
func frequency(e core.Expense) string   { return e.Frequency }

func singleSeries(groups []Group, label string) core.ChartData {
	if len(groups) == 0 {
		return core.EmptyChart()
	}
	labels := make([]string, len(groups))
	data := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		data[i] = g.Total
	}
	return core.ChartData{
		Labels:   labels,
		Datasets: []core.Dataset{{Label: label, Data: data}},
	}
}

// ByCategory sums spend per category (doughnut chart, unlabelled series).
func ByCategory(records []core.Expense) core.ChartData {
	return singleSeries(SumBy(records, category), "")
}

// BySubCategory sums spend per sub-category.
func BySubCategory(records []core.Expense) core.ChartData {
	return singleSeries(SumBy(records, subCategory), "")
}

// ByPaymentMode sums spend per payment mode.
func ByPaymentMode(records []core.Expense) core.ChartData {
	return singleSeries(SumBy(records, mode), AmountLabel)
}

// ByFrequency sums spend per frequency tag.
func ByFrequency(records []core.Expense) core.ChartData {
	return singleSeries(SumBy(records, frequency), AmountLabel)
}
