package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical on-the-wire date format.
const DateLayout = "2006-01-02"

// Layouts accepted by the strict ISO pass. Only the date part is kept.
var isoLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Fallback patterns: numeric/numeric/4-digit-year, slash or hyphen delimited.
// The first group is read as the month.
var (
	slashDate  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	hyphenDate = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// ParseISODate parses a strict ISO calendar date or date-time. Out-of-range
// days such as 2024-02-30 are rejected.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseDate tries strict ISO first and then the month-first M/D/YYYY and
// M-D-YYYY forms. Day-first input is misread when both parts are <= 12.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, ok := ParseISODate(s); ok {
		return t, true
	}
	for _, re := range []*regexp.Regexp{slashDate, hyphenDate} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := calendarDate(year, month, day); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns s reformatted as YYYY-MM-DD, or "" when it cannot be read.
func NormalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

// calendarDate builds a date without time.Date's overflow normalization.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DateRange is an inclusive window of ISO dates. An empty bound disables it.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Quick range names.
const (
	RangeCurrentMonth = "current-month"
	RangeLastMonth    = "last-month"
	RangeLast3Months  = "last-3-months"
	RangeCurrentYear  = "current-year"
)

// IsOpen reports whether the range leaves records unfiltered.
func (r DateRange) IsOpen() bool {
	return strings.TrimSpace(r.Start) == "" || strings.TrimSpace(r.End) == ""
}

// Contains reports whether date falls in [Start, End]. An unparseable date or
// bound, or an inverted range, excludes the record instead of failing.
func (r DateRange) Contains(date string) bool {
	if r.IsOpen() {
		return true
	}
	d, ok := ParseISODate(date)
	if !ok {
		return false
	}
	start, ok := ParseISODate(r.Start)
	if !ok {
		return false
	}
	end, ok := ParseISODate(r.End)
	if !ok || end.Before(start) {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// Filter returns the records inside the range, preserving order.
func (r DateRange) Filter(records []Expense) []Expense {
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Key identifies the range for memoization.
func (r DateRange) Key() string {
	return strings.TrimSpace(r.Start) + ".." + strings.TrimSpace(r.End)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, -1)
}

// MonthRange returns the calendar month containing now.
func MonthRange(now time.Time) DateRange {
	return DateRange{
		Start: startOfMonth(now).Format(DateLayout),
		End:   endOfMonth(now).Format(DateLayout),
	}
}

// QuickRange resolves a named preset against now.
func QuickRange(name string, now time.Time) (DateRange, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RangeCurrentMonth:
		return MonthRange(now), true
	case RangeLastMonth:
		return MonthRange(startOfMonth(now).AddDate(0, -1, 0)), true
	case RangeLast3Months:
		return DateRange{
			Start: startOfMonth(now).AddDate(0, -2, 0).Format(DateLayout),
			End:   endOfMonth(now).Format(DateLayout),
		}, true
	case RangeCurrentYear:
		return DateRange{
			Start: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format(DateLayout),
			End:   now.Format(DateLayout),
		}, true
	}
	return DateRange{}, false
}
