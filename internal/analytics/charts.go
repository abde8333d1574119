package analytics

import "expensedash/internal/core"

// Chart names, as used in URLs.
const (
	ChartCategory    = "category"
	ChartSubCategory = "subcategory"
	ChartPaymentMode = "payment-mode"
	ChartDaily       = "daily"
	ChartAvoidable   = "avoidable"
	ChartFrequency   = "frequency"
)

// ChartNames lists every chart in display order.
var ChartNames = []string{
	ChartCategory, ChartSubCategory, ChartPaymentMode,
	ChartDaily, ChartAvoidable, ChartFrequency,
}

var builders = map[string]func([]core.Expense) core.ChartData{
	ChartCategory:    ByCategory,
	ChartSubCategory: BySubCategory,
	ChartPaymentMode: ByPaymentMode,
	ChartDaily:       DailyByCategory,
	ChartAvoidable:   AvoidableComparison,
	ChartFrequency:   ByFrequency,
}

// Charts holds every chart payload for one record set.
type Charts struct {
	Category    core.ChartData `json:"category"`
	SubCategory core.ChartData `json:"subCategory"`
	PaymentMode core.ChartData `json:"paymentMode"`
	Daily       core.ChartData `json:"daily"`
	Avoidable   core.ChartData `json:"avoidable"`
	Frequency   core.ChartData `json:"frequency"`
}

// All builds every chart.
func All(records []core.Expense) Charts {
	return Charts{
		Category:    ByCategory(records),
		SubCategory: BySubCategory(records),
		PaymentMode: ByPaymentMode(records),
		Daily:       DailyByCategory(records),
		Avoidable:   AvoidableComparison(records),
		Frequency:   ByFrequency(records),
	}
}

// ByName builds a single chart. ok is false for unknown names.
func ByName(name string, records []core.Expense) (core.ChartData, bool) {
	build, ok := builders[name]
	if !ok {
		return core.ChartData{}, false
	}
	return build(records), true
}
