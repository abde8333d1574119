package http

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"expensedash/internal/core"
	"expensedash/internal/table"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		query url.Values
		want  core.DateRange
	}{
		{"empty means everything", url.Values{}, core.DateRange{}},
		{"explicit bounds", url.Values{"start": {"2024-01-10"}, "end": {"2024-01-12"}}, core.DateRange{Start: "2024-01-10", End: "2024-01-12"}},
		{"bounds beat range", url.Values{"start": {"2024-01-10"}, "end": {"2024-01-12"}, "range": {"current-month"}}, core.DateRange{Start: "2024-01-10", End: "2024-01-12"}},
		{"quick range", url.Values{"range": {"last-month"}}, core.DateRange{Start: "2024-02-01", End: "2024-02-29"}},
		{"unknown range", url.Values{"range": {"forever"}}, core.DateRange{}},
		{"bounds trimmed", url.Values{"start": {" 2024-01-01 "}, "end": {"2024-01-31\n"}}, core.DateRange{Start: "2024-01-01", End: "2024-01-31"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDateRange(tt.query, now))
		})
	}
}

func TestParseViewStateDefaults(t *testing.T) {
	state := ParseViewState(url.Values{}, 25)

	assert.Equal(t, "date", state.SortField)
	assert.Equal(t, table.Desc, state.SortDir)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 25, state.PageSize)
}

func TestParseViewState(t *testing.T) {
	q := url.Values{
		"search":    {" coffee "},
		"category":  {"Food"},
		"mode":      {"Cash"},
		"priority":  {"Low"},
		"avoidable": {"Yes"},
		"sort":      {"amount"},
		"dir":       {"DESC"},
		"page":      {"3"},
		"pageSize":  {"5"},
	}
	state := ParseViewState(q, 10)

	assert.Equal(t, "coffee", state.Search)
	assert.Equal(t, table.Filters{Category: "Food", Mode: "Cash", Priority: "Low", Avoidable: "Yes"}, state.Filters)
	assert.Equal(t, "amount", state.SortField)
	assert.Equal(t, table.Desc, state.SortDir)
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 5, state.PageSize)
}

func TestParseViewStateMalformedFallsBack(t *testing.T) {
	q := url.Values{
		"sort":     {"colour"},
		"dir":      {"sideways"},
		"page":     {"-2"},
		"pageSize": {"100000"},
	}
	state := ParseViewState(q, 10)

	assert.Equal(t, "date", state.SortField)
	assert.Equal(t, table.Desc, state.SortDir)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 10, state.PageSize)
}

func TestParseViewStateToggle(t *testing.T) {
	// same field flips
	state := ParseViewState(url.Values{"sort": {"amount"}, "dir": {"asc"}, "toggle": {"amount"}, "page": {"4"}}, 10)
	assert.Equal(t, "amount", state.SortField)
	assert.Equal(t, table.Desc, state.SortDir)
	assert.Equal(t, 1, state.Page)

	// new field starts ascending
	state = ParseViewState(url.Values{"sort": {"amount"}, "dir": {"desc"}, "toggle": {"category"}}, 10)
	assert.Equal(t, "category", state.SortField)
	assert.Equal(t, table.Asc, state.SortDir)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "abc", sanitizeInput("  a\x00b\x1fc "))
	assert.Equal(t, "", sanitizeInput("   "))
}
