package normalize

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/log"
)

// Rejection reasons.
const (
	ReasonMissingDate     = "missing_date"
	ReasonInvalidDate     = "invalid_date"
	ReasonNonFiniteAmount = "non_finite_amount"
)

// Result is the outcome of normalizing one raw row. When OK is false the
// row is not admitted and Reason says why.
type Result struct {
	Expense core.Expense
	OK      bool
	Reason  string
}

// Normalizer turns raw header-keyed rows into canonical expenses.
type Normalizer struct {
	logger *log.Logger
}

// New returns a Normalizer that reports row defects on logger.
// A nil logger falls back to the process default.
func New(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default(log.ComponentNormalize)
	}
	return &Normalizer{logger: logger.WithComponent(log.ComponentNormalize)}
}

// Normalize coerces one row. Keys may be raw spreadsheet headers or
// canonical field names; absent fields become "". When two keys map to the
// same field, a recognized header beats a derived one and ties go to the
// key that sorts first.
func (n *Normalizer) Normalize(row map[string]string) Result {
	fields := canonicalFields(row)

	e := core.Expense{
		Date:        fields[FieldDate],
		Mode:        fields[FieldMode],
		Category:    fields[FieldCategory],
		SubCategory: fields[FieldSubCategory],
		For:         fields[FieldFor],
		Amount:      core.ParseAmount(fields[FieldAmount]),
		Description: fields[FieldDescription],
		Priority:    fields[FieldPriority],
		Avoidable:   fields[FieldAvoidable],
		Frequency:   fields[FieldFrequency],
	}
	if date, ok := core.NormalizeDate(e.Date); ok {
		e.Date = date
	}

	err := e.Validate()
	switch {
	case err == nil:
		return Result{Expense: e, OK: true}
	case errors.Is(err, core.ErrMissingDate):
		n.logger.Debug("row without date dropped", log.FieldReason, ReasonMissingDate)
		e.Date = ""
		return Result{Expense: e, Reason: ReasonMissingDate}
	case errors.Is(err, core.ErrInvalidDate):
		n.logger.Warn("unparseable date",
			log.FieldValue, fields[FieldDate],
			log.FieldReason, ReasonInvalidDate)
		e.Date = ""
		return Result{Expense: e, Reason: ReasonInvalidDate}
	default:
		n.logger.Warn("amount out of range",
			log.FieldValue, fields[FieldAmount],
			log.FieldReason, ReasonNonFiniteAmount)
		return Result{Expense: e, Reason: ReasonNonFiniteAmount}
	}
}

func canonicalFields(row map[string]string) map[string]string {
	fields := make(map[string]string, len(row))
	recognized := make(map[string]bool, len(row))
	for _, k := range slices.Sorted(maps.Keys(row)) {
		field, known := lookupHeader(k)
		if _, seen := fields[field]; seen && (recognized[field] || !known) {
			continue
		}
		fields[field] = strings.TrimSpace(row[k])
		recognized[field] = known
	}
	return fields
}

// All normalizes rows in order and returns the admitted expenses along
// with the number of rejected rows.
func (n *Normalizer) All(rows []map[string]string) ([]core.Expense, int) {
	out := make([]core.Expense, 0, len(rows))
	rejected := 0
	for i, row := range rows {
		res := n.Normalize(row)
		if !res.OK {
			rejected++
			n.logger.Debug("row rejected", log.FieldRow, i+1, log.FieldReason, res.Reason)
			continue
		}
		out = append(out, res.Expense)
	}
	if rejected > 0 {
		n.logger.Info("rows rejected during normalization",
			log.FieldRecords, len(out),
			log.FieldRejected, rejected)
	}
	return out, rejected
}
