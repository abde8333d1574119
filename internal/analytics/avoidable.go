package analytics

import "expensedash/internal/core"

// Series labels of the avoidable comparison chart.
const (
	AvoidableLabel    = "Avoidable"
	NonAvoidableLabel = "Non-Avoidable"
)

// AvoidableComparison splits each category's spend into avoidable and
// non-avoidable parts, as two series over the same category axis.
func AvoidableComparison(records []core.Expense) core.ChartData {
	if len(records) == 0 {
		return core.EmptyChart()
	}
	index := make(map[string]int)
	var labels []string
	var avoidable, essential []float64
	for _, e := range records {
		i, ok := index[e.Category]
		if !ok {
			i = len(labels)
			index[e.Category] = i
			labels = append(labels, e.Category)
			avoidable = append(avoidable, 0)
			essential = append(essential, 0)
		}
		if e.IsAvoidable() {
			avoidable[i] += e.Amount
		} else {
			essential[i] += e.Amount
		}
	}
	return core.ChartData{
		Labels: labels,
		Datasets: []core.Dataset{
			{Label: AvoidableLabel, Data: avoidable},
			{Label: NonAvoidableLabel, Data: essential},
		},
	}
}
