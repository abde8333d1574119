package normalize

import (
	"strings"
	"unicode"
)

// Canonical field names.
const (
	FieldDate        = "date"
	FieldMode        = "mode"
	FieldCategory    = "category"
	FieldSubCategory = "subCategory"
	FieldFor         = "for"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldAvoidable   = "avoidable"
	FieldFrequency   = "frequency"
)

// Headers is the spreadsheet header row in export order.
var Headers = []string{
	"Date", "Mode", "Category", "Sub Category", "For",
	"Amount", "Description", "Priority", "Avoidable", "Frequency",
}

var headerMap = map[string]string{
	"Date":         FieldDate,
	"Mode":         FieldMode,
	"Category":     FieldCategory,
	"Sub Category": FieldSubCategory,
	"For":          FieldFor,
	"Amount":       FieldAmount,
	"Description":  FieldDescription,
	"Priority":     FieldPriority,
	"Avoidable":    FieldAvoidable,
	"Frequency":    FieldFrequency,
}

func init() {
	// Rows keyed by field name pass through unchanged.
	for _, field := range []string{
		FieldDate, FieldMode, FieldCategory, FieldSubCategory, FieldFor,
		FieldAmount, FieldDescription, FieldPriority, FieldAvoidable, FieldFrequency,
	} {
		headerMap[field] = field
	}
}

// CanonicalHeader maps a spreadsheet header to its record field name.
// Unknown headers are lowercased with all whitespace removed, so
// "Sub  category" and "subcategory" both become "subcategory".
func CanonicalHeader(label string) string {
	field, _ := lookupHeader(label)
	return field
}

// lookupHeader is CanonicalHeader that also reports whether label is a
// spreadsheet header or field name rather than a derived key.
func lookupHeader(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	if f, ok := headerMap[trimmed]; ok {
		return f, true
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, trimmed), false
}
