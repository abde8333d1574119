// Package http serves the dashboard payloads over a JSON API.
//
// This file turns query strings into date windows and table view states.
// Nothing here rejects a request: malformed values fall back to defaults.
package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"expensedash/internal/core"
	"expensedash/internal/table"
)

// MaxPageSize bounds the pageSize query parameter.
const MaxPageSize = 500

// Query parameter names.
const (
	paramRange     = "range"
	paramStart     = "start"
	paramEnd       = "end"
	paramSearch    = "search"
	paramCategory  = "category"
	paramMode      = "mode"
	paramPriority  = "priority"
	paramAvoidable = "avoidable"
	paramSort      = "sort"
	paramDir       = "dir"
	paramToggle    = "toggle"
	paramPage      = "page"
	paramPageSize  = "pageSize"
)

// ParseDateRange reads the date window. Explicit start/end win over a
// named range; an unknown range name means no window.
func ParseDateRange(query url.Values, now time.Time) core.DateRange {
	start := sanitizeInput(query.Get(paramStart))
	end := sanitizeInput(query.Get(paramEnd))
	if start != "" || end != "" {
		return core.DateRange{Start: start, End: end}
	}
	if r, ok := core.QuickRange(query.Get(paramRange), now); ok {
		return r
	}
	return core.DateRange{}
}

// ParseViewState reads the table state. pageSize is the default page size.
// A toggle parameter applies ToggleSort to the sort it arrives with.
func ParseViewState(query url.Values, pageSize int) table.ViewState {
	state := table.DefaultViewState()
	if pageSize > 0 {
		state.PageSize = pageSize
	}

	state.Search = sanitizeInput(query.Get(paramSearch))
	state.Filters = table.Filters{
		Category:  sanitizeInput(query.Get(paramCategory)),
		Mode:      sanitizeInput(query.Get(paramMode)),
		Priority:  sanitizeInput(query.Get(paramPriority)),
		Avoidable: sanitizeInput(query.Get(paramAvoidable)),
	}
	if v := sanitizeInput(query.Get(paramSort)); v != "" {
		state.SortField = v
		state.SortDir = table.Asc
	}
	if v := sanitizeInput(query.Get(paramDir)); v != "" {
		state.SortDir = table.SortDir(strings.ToLower(v))
	}
	state.Page = parsePositive(query.Get(paramPage), 1)
	if size := parsePositive(query.Get(paramPageSize), state.PageSize); size <= MaxPageSize {
		state.PageSize = size
	}

	state = state.Sanitized()
	if v := sanitizeInput(query.Get(paramToggle)); v != "" {
		state = state.ToggleSort(v).Sanitized()
	}
	return state
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// sanitizeInput trims whitespace and drops control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
