// Package numfmt parses and formats quantities written in pt-BR notation.
package numfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseLocale parses "1.234,5", "12,5", "12.5" and "1234".
// A comma is always the decimal separator; when a comma is present, periods
// are thousands separators. Without a comma a single period is a decimal point.
func ParseLocale(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return d, nil
}

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseGrouped is ParseLocale for report columns written with a comma
// decimal: "1.234" is read as 1234, not 1.234. Typed quantities keep using
// ParseLocale, where "1.5" means one and a half.
func ParseGrouped(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if thousandsOnly.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	return ParseLocale(s)
}

// GroupedOrZero is ParseGrouped with 0 on failure.
func GroupedOrZero(raw string) decimal.Decimal {
	d, err := ParseGrouped(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseOrZero is ParseLocale with 0 on failure.
func ParseOrZero(raw string) decimal.Decimal {
	d, err := ParseLocale(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Display renders d for humans: integral values without decimals,
// everything else with a comma decimal separator ("12,5").
func Display(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return strings.Replace(d.String(), ".", ",", 1)
}

// Plain renders d for exports: period decimal, full precision.
func Plain(d decimal.Decimal) string {
	return d.String()
}
