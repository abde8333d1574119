package google

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/log"
	"expensedash/internal/normalize"
)

func TestRowsFromValuesPadsTrimmedRows(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Mode", "Category", "Sub Category", "For", "Amount", "Description", "Priority", "Avoidable", "Frequency"},
		{"2024-01-01", "Cash", "Food", "Groceries", "Self", 45.5, "Weekly groceries", "High", "No", "Weekly"},
		{"1/2/2024", "UPI", "Transport", "", "", "12"},
		{},
		{"", "", ""},
		{"2024-01-03", "Cash"},
	}
	rows, err := rowsFromValues(values)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "45.5", rows[0]["Amount"])
	assert.Equal(t, "", rows[1]["Frequency"])
	assert.Equal(t, "Cash", rows[2]["Mode"])
	assert.Equal(t, "", rows[2]["Amount"])

	got, rejected := normalize.New(log.Discard()).All(rows)
	assert.Zero(t, rejected)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-02", got[1].Date)
	assert.InDelta(t, 12.0, got[1].Amount, 1e-9)
	assert.Zero(t, got[2].Amount)
}

func TestRowsFromValuesIgnoresTrailingBlankHeaders(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Amount", "", ""},
		{"2024-01-01", "5", "", ""},
	}
	rows, err := rowsFromValues(values)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 2)
}

func TestRowsFromValuesRejectsOverlongRows(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Amount"},
		{"2024-01-01", "5", "extra"},
	}
	_, err := rowsFromValues(values)
	assert.Error(t, err)
}

func TestRowsFromValuesEmpty(t *testing.T) {
	_, err := rowsFromValues(nil)
	assert.ErrorIs(t, err, errNoHeader)

	_, err = rowsFromValues([][]interface{}{{"", ""}})
	assert.ErrorIs(t, err, errNoHeader)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "60", cellString(60.0))
	assert.Equal(t, "true", cellString(true))
	assert.Equal(t, "x", cellString("x"))
	assert.Equal(t, "7", cellString(7))
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, log.Discard())
	assert.Error(t, err)
}

func TestClientWithoutServiceFails(t *testing.T) {
	c := newWithService(nil, "sheet-id", "", log.Discard())
	assert.Equal(t, DefaultSheetName, c.sheetName)
	assert.Equal(t, "sheets", string(c.Kind()))
	_, err := c.ReadExpenses(context.Background())
	assert.Error(t, err)
}
