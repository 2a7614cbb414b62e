package ledger

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/numfmt"
)

// fractionalUnits may be counted with decimals; everything else is counted
// in whole units.
var fractionalUnits = map[string]bool{
	"KG": true,
	"G":  true,
	"L":  true,
	"LT": true,
	"ML": true,
}

// quantityScale matches the numeric(14,3) quantidade column.
const quantityScale = 3

// AllowsFraction reports whether emb is a weight or volume unit.
func AllowsFraction(emb string) bool {
	return fractionalUnits[strings.ToUpper(strings.TrimSpace(emb))]
}

// ParseQuantity accepts JSON numbers and numeric strings ("2", "2,5",
// "1.234,5"). Negative, non-numeric and values finer than a thousandth are
// validation errors.
func ParseQuantity(v interface{}) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch val := v.(type) {
	case nil:
		return decimal.Zero, apperr.Validation("quantidade", "is required")
	case decimal.Decimal:
		d = val
	case float64:
		d = decimal.NewFromFloat(val)
	case float32:
		d = decimal.NewFromFloat32(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case json.Number:
		d, err = decimal.NewFromString(val.String())
	case string:
		d, err = numfmt.ParseLocale(val)
	default:
		return decimal.Zero, apperr.Validation("quantidade", "unsupported type %T", v)
	}
	if err != nil {
		return decimal.Zero, apperr.Validation("quantidade", "%v is not a number", v)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation("quantidade", "must not be negative, got %s", d)
	}
	if !d.Equal(d.Truncate(quantityScale)) {
		return decimal.Zero, apperr.Validation("quantidade", "at most %d decimal places, got %s", quantityScale, d)
	}
	return d, nil
}

func checkUnit(qty decimal.Decimal, emb string) error {
	if !qty.Equal(qty.Truncate(0)) && !AllowsFraction(emb) {
		return apperr.Validation("quantidade", "%s is counted in whole units, got %s", emptyAs(emb, "this product"), qty)
	}
	return nil
}

func emptyAs(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
