package core

import (
	"errors"
	"strings"
	"time"
)

// NotAvailable is the label reported for categorical stats over an empty set.
const NotAvailable = "N/A"

// Sources an ingestion cycle can report.
const (
	SourceCSV    SourceKind = "csv"
	SourceSheets SourceKind = "sheets"
	SourceSample SourceKind = "sample"
)

type (
	SourceKind string

	// Expense is a normalized, admitted expense row.
	Expense struct {
		Date        string  `json:"date"` // YYYY-MM-DD
		Mode        string  `json:"mode"`
		Category    string  `json:"category"`
		SubCategory string  `json:"subCategory"`
		For         string  `json:"for"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Priority    string  `json:"priority"`
		Avoidable   string  `json:"avoidable"`
		Frequency   string  `json:"frequency"`
	}

	// SummaryStats is derived from a record set, never stored.
	SummaryStats struct {
		TotalSpend        float64 `json:"totalSpend"`
		MonthlySpend      float64 `json:"monthlySpend"`
		AvoidableSpend    float64 `json:"avoidableSpend"`
		NonAvoidableSpend float64 `json:"nonAvoidableSpend"`
		TopCategory       string  `json:"topCategory"`
		TopPaymentMode    string  `json:"topPaymentMode"`
		TransactionCount  int     `json:"transactionCount"`
		CategoryCount     int     `json:"categoryCount"`
		PaymentModeCount  int     `json:"paymentModeCount"`
	}

	// Snapshot is the immutable record set produced by one ingestion cycle.
	Snapshot struct {
		ID          string     `json:"id"`
		Records     []Expense  `json:"-"`
		Source      SourceKind `json:"source"`
		UsingSample bool       `json:"usingSample"`
		FetchedAt   time.Time  `json:"fetchedAt"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrMissingDate   = errors.New("missing date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// IsAvoidable reports whether the expense is tagged as discretionary spend.
func (e Expense) IsAvoidable() bool {
	return strings.EqualFold(e.Avoidable, "yes")
}

// Validate checks the admission rule: a valid calendar date and a finite amount.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Date) == "" {
		return ErrMissingDate
	}
	if _, ok := ParseISODate(e.Date); !ok {
		return ErrInvalidDate
	}
	if !isFinite(e.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

// Len returns the number of records held by the snapshot.
func (s Snapshot) Len() int {
	return len(s.Records)
}

// Copy returns a copy of the records safe for sorting by the caller.
func (s Snapshot) Copy() []Expense {
	out := make([]Expense, len(s.Records))
	copy(out, s.Records)
	return out
}
