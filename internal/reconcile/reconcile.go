// Package reconcile compares an external product report with the stored
// catalog and plans the catalog writes an import should perform.
package reconcile

import (
	"fmt"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// Divergence is a product present on both sides with differing attributes.
type Divergence struct {
	EAN      string         `json:"ean"`
	Fields   []string       `json:"fields"`
	External models.Product `json:"external"`
	Stored   models.Product `json:"stored"`
}

// Result is the categorized diff. New and Divergent never share an EAN and
// Missing never contains an EAN present in the external report.
type Result struct {
	New       []models.Product   `json:"new"`
	Missing   []models.Product   `json:"missing"`
	Divergent []Divergence       `json:"divergent"`
	Invalid   []models.ReportRow `json:"invalid"`
}

// Compare reconciles external rows against the catalog. EANs on both sides are
// normalized; the first occurrence of a duplicated EAN wins.
func Compare(external []models.ReportRow, catalog []models.Product) Result {
	res := Result{
		New:       []models.Product{},
		Missing:   []models.Product{},
		Divergent: []Divergence{},
		Invalid:   []models.ReportRow{},
	}

	stored := make(map[string]models.Product, len(catalog))
	storedOrder := make([]string, 0, len(catalog))
	for _, p := range catalog {
		key := ean.Normalize(p.EAN)
		if key == "" {
			continue
		}
		if _, dup := stored[key]; dup {
			continue
		}
		stored[key] = p
		storedOrder = append(storedOrder, key)
	}

	seen := make(map[string]struct{}, len(external))
	for _, row := range external {
		key := ean.Normalize(row.EAN)
		if key == "" {
			res.Invalid = append(res.Invalid, row)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ext := row.Product(key)
		cur, ok := stored[key]
		if !ok {
			res.New = append(res.New, ext)
			continue
		}
		if fields := ext.DiffFields(cur); len(fields) > 0 {
			res.Divergent = append(res.Divergent, Divergence{
				EAN:      key,
				Fields:   fields,
				External: ext,
				Stored:   cur,
			})
		}
	}

	for _, key := range storedOrder {
		if _, ok := seen[key]; !ok {
			res.Missing = append(res.Missing, stored[key])
		}
	}

	return res
}

// Mode selects which external rows an import writes to the catalog.
type Mode string

const (
	// ModeNew inserts products that are not in the catalog yet.
	ModeNew Mode = "new"
	// ModeDivergent only updates existing products whose attributes changed.
	ModeDivergent Mode = "divergent"
	// ModeAll upserts every new or divergent row.
	ModeAll Mode = "all"
	// ModeNone leaves existing products untouched; equivalent to ModeNew.
	ModeNone Mode = "none"
)

// ParseMode validates a mode name. Empty means ModeNew.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeNew, nil
	case ModeNew, ModeDivergent, ModeAll, ModeNone:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown import mode %q (use new, divergent, all or none)", s)
	}
}

// Plan returns the products to upsert for the given mode. Unchanged products
// are never included, so applying a plan twice is a no-op the second time.
func Plan(res Result, mode Mode) []models.Product {
	var out []models.Product
	switch mode {
	case ModeNew, ModeNone:
		out = append(out, res.New...)
	case ModeDivergent:
		for _, d := range res.Divergent {
			out = append(out, d.External)
		}
	case ModeAll:
		out = append(out, res.New...)
		for _, d := range res.Divergent {
			out = append(out, d.External)
		}
	}
	return out
}

// Stats is the per-category count used in responses and import history.
type Stats struct {
	New       int `json:"new"`
	Missing   int `json:"missing"`
	Divergent int `json:"divergent"`
	Invalid   int `json:"invalid"`
}

func (r Result) Stats() Stats {
	return Stats{
		New:       len(r.New),
		Missing:   len(r.Missing),
		Divergent: len(r.Divergent),
		Invalid:   len(r.Invalid),
	}
}
