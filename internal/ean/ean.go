// Package ean canonicalizes raw barcode input into the product key used by
// the catalog and the count ledger.
package ean

import (
	"math"
	"strconv"
	"strings"
)

// MaxLength is the number of digits kept by Normalize (EAN-13).
const MaxLength = 13

var stripper = strings.NewReplacer(
	"\n", "",
	"\t", "",
	"\r", "",
	"'", "",
	"\"", "",
)

// Normalize returns the canonical EAN for raw scanner or spreadsheet input,
// or "" when no digits survive cleaning.
//
// Codes longer than MaxLength keep their last 13 digits (the check-digit side).
func Normalize(raw string) string {
	code := Digits(raw)
	if len(code) > MaxLength {
		code = code[len(code)-MaxLength:]
	}
	return code
}

// Digits cleans raw the same way Normalize does but never truncates.
// Vendor product codes may legitimately exceed 13 digits.
func Digits(raw string) string {
	if raw == "" {
		return ""
	}

	s := stripper.Replace(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ",", ".")

	// Spreadsheet exports turn long codes into scientific notation (7.89284e+12)
	if strings.ContainsAny(s, "eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			s = strconv.FormatFloat(math.Trunc(f), 'f', 0, 64)
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Valid reports whether raw normalizes to a usable EAN.
func Valid(raw string) bool {
	return Normalize(raw) != ""
}
