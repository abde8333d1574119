package analytics

import (
	"sort"

	"expensedash/internal/core"
)

// DayLabelLayout formats the date axis of the daily chart.
const DayLabelLayout = "Jan 02"

// DailyByCategory builds the stacked daily chart: a chronological date axis
// and one series per category seen anywhere in records, zero-filled on days
// without spend in that category.
func DailyByCategory(records []core.Expense) core.ChartData {
	if len(records) == 0 {
		return core.EmptyChart()
	}

	perDay := make(map[string]map[string]float64)
	var categories []string
	seen := make(map[string]bool)
	for _, e := range records {
		day, ok := perDay[e.Date]
		if !ok {
			day = make(map[string]float64)
			perDay[e.Date] = day
		}
		day[e.Category] += e.Amount
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}

	// Admitted dates are YYYY-MM-DD, so lexical order is chronological.
	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = dayLabel(d)
	}

	datasets := make([]core.Dataset, len(categories))
	for i, c := range categories {
		data := make([]float64, len(dates))
		for j, d := range dates {
			data[j] = perDay[d][c]
		}
		datasets[i] = core.Dataset{Label: c, Data: data}
	}
	return core.ChartData{Labels: labels, Datasets: datasets}
}

func dayLabel(date string) string {
	t, ok := core.ParseISODate(date)
	if !ok {
		return date
	}
	return t.Format(DayLabelLayout)
}
