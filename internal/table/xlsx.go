package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"expensedash/internal/core"
	"expensedash/internal/normalize"
)

// XLSXSheetName is the worksheet holding exported rows.
const XLSXSheetName = "Expenses"

// WriteXLSX writes records as a single-sheet workbook with the same columns
// as WriteCSV. Amounts are stored as numbers.
func WriteXLSX(w io.Writer, records []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#6D28D9"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("amount style: %w", err)
	}

	header := make([]interface{}, len(normalize.Headers))
	for i, h := range normalize.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(normalize.Headers))
	_ = f.SetCellStyle(XLSXSheetName, "A1", lastCol+"1", headerStyle)

	for i, e := range records {
		row := []interface{}{
			e.Date, e.Mode, e.Category, e.SubCategory, e.For,
			e.Amount, e.Description, e.Priority, e.Avoidable, e.Frequency,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(XLSXSheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if len(records) > 0 {
		_ = f.SetCellStyle(XLSXSheetName, "F2", fmt.Sprintf("F%d", len(records)+1), amountStyle)
	}
	_ = f.SetColWidth(XLSXSheetName, "A", "A", 12)
	_ = f.SetColWidth(XLSXSheetName, "G", "G", 32)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
