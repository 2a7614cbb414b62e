package ledger

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
)

func TestParseQuantity(t *testing.T) {
	ok := []struct {
		in   interface{}
		want string
	}{
		{3, "3"},
		{int64(7), "7"},
		{2.5, "2.5"},
		{json.Number("4"), "4"},
		{"12", "12"},
		{"1,5", "1.5"},
		{"1.234,5", "1234.5"},
		{0, "0"},
		{decimal.NewFromInt(9), "9"},
		{"0,125", "0.125"},
		{"2.5000", "2.5"},
	}
	for _, tc := range ok {
		got, err := ParseQuantity(tc.in)
		if err != nil {
			t.Errorf("ParseQuantity(%v) error: %v", tc.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseQuantity(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, bad := range []interface{}{-1, -0.5, "-3", "abc", "", nil, true, json.Number("x"), "0,0004", json.Number("1.2345"), 0.0004} {
		if _, err := ParseQuantity(bad); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("ParseQuantity(%v) = %v, want validation error", bad, err)
		}
	}
}

func TestAllowsFraction(t *testing.T) {
	for _, emb := range []string{"KG", " kg ", "L", "lt", "ML", "G"} {
		if !AllowsFraction(emb) {
			t.Errorf("%q should allow fractions", emb)
		}
	}
	for _, emb := range []string{"UN", "PCT", "CX", ""} {
		if AllowsFraction(emb) {
			t.Errorf("%q should not allow fractions", emb)
		}
	}
}
