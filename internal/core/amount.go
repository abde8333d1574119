package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.+\-]`)
	leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)`)
)

// ParseAmount coerces a loosely formatted amount ("₹1,234.50", "$ 12", "45.5 INR")
// to a float. Everything but digits, signs and dots is dropped and the longest
// leading number is parsed; anything unreadable yields 0. Overflow yields ±Inf,
// which the admission rule rejects.
func ParseAmount(s string) float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	num := leadingNumber.FindString(cleaned)
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatAmountPlain renders an amount the way the CSV export writes it:
// shortest round-trip form, no grouping.
func FormatAmountPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Thousands and decimal separators per language.
var localeSeparators = map[string][2]string{
	"en": {",", "."},
	"it": {".", ","},
	"de": {".", ","},
	"es": {".", ","},
	"pt": {".", ","},
	"nl": {".", ","},
	"fr": {" ", ","},
}

// FormatAmount renders v with two decimals and the thousands separators of
// locale (e.g. "en-US", "it-IT", "en-IN"). Unknown locales fall back to en-US.
func FormatAmount(v float64, locale string) string {
	if !isFinite(v) {
		return FormatAmountPlain(v)
	}
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "en-in" {
		return indianGrouping(fixed)
	}
	lang, _, _ := strings.Cut(locale, "-")
	seps, ok := localeSeparators[lang]
	if !ok {
		seps = localeSeparators["en"]
	}
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + intPart + seps[1] + frac
	}
	grouped := strings.ReplaceAll(humanize.Comma(n), ",", seps[0])
	return sign + grouped + seps[1] + frac
}

// indianGrouping applies lakh/crore grouping (12,34,567.89) to a fixed-point string.
func indianGrouping(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + frac
	}
	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + "." + frac
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
