package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: "2024-01-15", Amount: 12.5}
	require.NoError(t, good.Validate())

	zero := Expense{Date: "2024-01-15"}
	require.NoError(t, zero.Validate(), "zero amount is admitted")

	cases := []struct {
		name string
		e    Expense
		err  error
	}{
		{"missing date", Expense{Amount: 1}, ErrMissingDate},
		{"impossible day", Expense{Date: "2024-02-30", Amount: 1}, ErrInvalidDate},
		{"not a date", Expense{Date: "yesterday", Amount: 1}, ErrInvalidDate},
		{"infinite amount", Expense{Date: "2024-01-01", Amount: math.Inf(1)}, ErrInvalidAmount},
		{"nan amount", Expense{Date: "2024-01-01", Amount: math.NaN()}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.e.Validate(), tc.err)
		})
	}
}

func TestExpenseIsAvoidable(t *testing.T) {
	assert.True(t, Expense{Avoidable: "Yes"}.IsAvoidable())
	assert.True(t, Expense{Avoidable: "YES"}.IsAvoidable())
	assert.False(t, Expense{Avoidable: "No"}.IsAvoidable())
	assert.False(t, Expense{Avoidable: ""}.IsAvoidable())
	assert.False(t, Expense{Avoidable: "y"}.IsAvoidable())
}

func TestSnapshotCopyIsIndependent(t *testing.T) {
	s := Snapshot{Records: []Expense{{Date: "2024-01-01"}, {Date: "2024-01-02"}}}
	cp := s.Copy()
	cp[0].Date = "2030-01-01"
	assert.Equal(t, "2024-01-01", s.Records[0].Date)
	assert.Equal(t, 2, s.Len())
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{" 2024-01-15 ", "2024-01-15", true},
		{"2024-01-15T10:30:00", "2024-01-15", true},
		{"2024-01-15T10:30:00Z", "2024-01-15", true},
		{"2024-01-15 08:00", "2024-01-15", true},
		{"1/15/2024", "2024-01-15", true},
		{"01/05/2024", "2024-01-05", true},
		{"12-31-2023", "2023-12-31", true},
		{"2024-02-29", "2024-02-29", true},
		{"2023-02-29", "", false},
		{"2024-02-30", "", false},
		{"13/01/2024", "", false},
		{"2/30/2024", "", false},
		{"1/15-2024", "", false},
		{"15/1/24", "", false},
		{"Jan 15 2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := NormalizeDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2024-01-01", End: "2024-01-31"}
	assert.True(t, r.Contains("2024-01-01"))
	assert.True(t, r.Contains("2024-01-31"))
	assert.False(t, r.Contains("2024-02-01"))
	assert.False(t, r.Contains("garbage"))

	assert.True(t, DateRange{}.Contains("garbage"), "open range does not filter")
	assert.True(t, DateRange{Start: "2024-01-01"}.Contains("1999-01-01"))

	bad := DateRange{Start: "not-a-date", End: "2024-01-31"}
	assert.False(t, bad.Contains("2024-01-10"))

	inverted := DateRange{Start: "2024-02-01", End: "2024-01-01"}
	assert.False(t, inverted.Contains("2024-01-15"))
}

func TestDateRangeFilter(t *testing.T) {
	records := []Expense{
		{Date: "2024-01-05"}, {Date: "2024-02-05"}, {Date: "bad"}, {Date: "2024-01-20"},
	}
	got := DateRange{Start: "2024-01-01", End: "2024-01-31"}.Filter(records)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-05", got[0].Date)
	assert.Equal(t, "2024-01-20", got[1].Date)
}

func TestQuickRange(t *testing.T) {
	now := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		want DateRange
	}{
		{RangeCurrentMonth, DateRange{"2024-03-01", "2024-03-31"}},
		{RangeLastMonth, DateRange{"2024-02-01", "2024-02-29"}},
		{RangeLast3Months, DateRange{"2024-01-01", "2024-03-31"}},
		{RangeCurrentYear, DateRange{"2024-01-01", "2024-03-14"}},
	}
	for _, tc := range cases {
		got, ok := QuickRange(tc.name, now)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
	_, ok := QuickRange("fortnight", now)
	assert.False(t, ok)
}

func TestQuickRangeLastMonthAcrossYear(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got, ok := QuickRange(RangeLastMonth, now)
	require.True(t, ok)
	assert.Equal(t, DateRange{"2024-12-01", "2024-12-31"}, got)
}
