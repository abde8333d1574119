package table

import (
	"bufio"
	"io"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/normalize"
)

// Export file names.
const (
	CSVFilename  = "expense_data.csv"
	XLSXFilename = "expense_data.xlsx"
)

// WriteCSV writes records with the fixed spreadsheet header. Rows are
// separated by "\n" with no trailing newline. Description is always
// double-quoted; other fields are quoted only when they need it.
func WriteCSV(w io.Writer, records []core.Expense) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(normalize.Headers, ",")); err != nil {
		return err
	}
	for _, e := range records {
		fields := []string{
			quoteIfNeeded(e.Date),
			quoteIfNeeded(e.Mode),
			quoteIfNeeded(e.Category),
			quoteIfNeeded(e.SubCategory),
			quoteIfNeeded(e.For),
			core.FormatAmountPlain(e.Amount),
			quote(e.Description),
			quoteIfNeeded(e.Priority),
			quoteIfNeeded(e.Avoidable),
			quoteIfNeeded(e.Frequency),
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := bw.WriteString(strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
