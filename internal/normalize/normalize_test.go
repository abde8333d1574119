package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/core"
	"expensedash/internal/log"
)

func TestCanonicalHeader(t *testing.T) {
	cases := map[string]string{
		"Date":          "date",
		"Sub Category":  "subCategory",
		" Amount ":      "amount",
		"For":           "for",
		"Sub  category": "subcategory",
		"PAYMENT MODE":  "paymentmode",
		"avoidable":     "avoidable",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalHeader(in), in)
	}
}

func TestNormalizeFullRow(t *testing.T) {
	n := New(log.Discard())
	res := n.Normalize(map[string]string{
		"Date":         "1/15/2024",
		"Mode":         " UPI ",
		"Category":     "Food",
		"Sub Category": "Groceries",
		"For":          "Self",
		"Amount":       "₹1,234.50",
		"Description":  "weekly shop",
		"Priority":     "High",
		"Avoidable":    "No",
		"Frequency":    "Weekly",
	})
	require.True(t, res.OK)
	e := res.Expense
	assert.Equal(t, "2024-01-15", e.Date)
	assert.Equal(t, "UPI", e.Mode)
	assert.Equal(t, "Groceries", e.SubCategory)
	assert.Equal(t, "Self", e.For)
	assert.InDelta(t, 1234.5, e.Amount, 1e-9)
	assert.Equal(t, "Weekly", e.Frequency)
	assert.NoError(t, e.Validate())
}

func TestNormalizeAcceptsCanonicalKeys(t *testing.T) {
	res := New(log.Discard()).Normalize(map[string]string{
		"date":        "2024-03-01",
		"subCategory": "Fuel",
		"amount":      "10",
	})
	require.True(t, res.OK)
	assert.Equal(t, "Fuel", res.Expense.SubCategory)
}

func TestNormalizeCollidingKeysResolveDeterministically(t *testing.T) {
	row := map[string]string{
		"DATE":     "03/01/2024",
		"Date":     "2024-01-05",
		"date":     "2024-02-05",
		"amount":   "7",
		"AMOUNT ":  "8",
		"Category": "Food",
	}
	n := New(log.Discard())
	for i := 0; i < 50; i++ {
		res := n.Normalize(row)
		require.True(t, res.OK)
		assert.Equal(t, "2024-01-05", res.Expense.Date)
		assert.InDelta(t, 7, res.Expense.Amount, 1e-9)
	}
}

func TestNormalizeRejectionsMatchValidate(t *testing.T) {
	rows := []map[string]string{
		{"Amount": "10"},
		{"Date": "2024-02-30", "Amount": "10"},
		{"Date": "2024-01-01", "Amount": strings.Repeat("9", 400)},
	}
	n := New(log.Discard())
	for _, row := range rows {
		res := n.Normalize(row)
		assert.False(t, res.OK)
		e := res.Expense
		if res.Reason == ReasonNonFiniteAmount {
			assert.ErrorIs(t, e.Validate(), core.ErrInvalidAmount)
		} else {
			assert.Error(t, e.Validate())
		}
	}
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name   string
		row    map[string]string
		reason string
	}{
		{"missing date", map[string]string{"Amount": "10"}, ReasonMissingDate},
		{"blank date", map[string]string{"Date": "   ", "Amount": "10"}, ReasonMissingDate},
		{"impossible date", map[string]string{"Date": "2024-02-30", "Amount": "10"}, ReasonInvalidDate},
		{"day first", map[string]string{"Date": "31/01/2024", "Amount": "10"}, ReasonInvalidDate},
		{"garbage", map[string]string{"Date": "soon", "Amount": "10"}, ReasonInvalidDate},
	}
	n := New(log.Discard())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := n.Normalize(tc.row)
			assert.False(t, res.OK)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Empty(t, res.Expense.Date)
		})
	}
}

func TestNormalizeNonFiniteAmount(t *testing.T) {
	huge := "9"
	for i := 0; i < 400; i++ {
		huge += "9"
	}
	res := New(log.Discard()).Normalize(map[string]string{"Date": "2024-01-01", "Amount": huge})
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNonFiniteAmount, res.Reason)
}

func TestUnparseableAmountKeepsRowAtZero(t *testing.T) {
	res := New(log.Discard()).Normalize(map[string]string{"Date": "2024-01-01", "Amount": "n/a"})
	require.True(t, res.OK)
	assert.Zero(t, res.Expense.Amount)
}

func TestAllPreservesOrderAndCountsRejects(t *testing.T) {
	rows := []map[string]string{
		{"Date": "2024-01-02", "Amount": "2"},
		{"Date": "bad", "Amount": "3"},
		{"Date": "2024-01-01", "Amount": "1"},
	}
	got, rejected := New(nil).All(rows)
	require.Len(t, got, 2)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, "2024-01-02", got[0].Date)
	assert.Equal(t, "2024-01-01", got[1].Date)
}
