package analytics

import (
	"time"

	"expensedash/internal/core"
)

// Summary computes the headline statistics. The monthly figure covers the
// calendar month containing now, whatever range records were filtered to.
func Summary(records []core.Expense, now time.Time) core.SummaryStats {
	month := core.MonthRange(now)
	var stats core.SummaryStats
	for _, e := range records {
		stats.TotalSpend += e.Amount
		if e.IsAvoidable() {
			stats.AvoidableSpend += e.Amount
		}
		if month.Contains(e.Date) {
			stats.MonthlySpend += e.Amount
		}
	}
	stats.NonAvoidableSpend = stats.TotalSpend - stats.AvoidableSpend

	categories := SumBy(records, category)
	modes := SumBy(records, mode)
	stats.TopCategory = Top(categories)
	stats.TopPaymentMode = Top(modes)
	stats.TransactionCount = len(records)
	stats.CategoryCount = len(categories)
	stats.PaymentModeCount = len(modes)
	return stats
}
