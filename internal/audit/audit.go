// Package audit compares the stock a system report claims with the
// quantities counted in the ledger.
package audit

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/numfmt"
)

// Row is one audited product. Diferenca is EstoqueContado - EstoqueSistema.
type Row struct {
	EAN            string          `json:"ean"`
	Descricao      string          `json:"descricao"`
	Secao          string          `json:"secao"`
	Grupo          string          `json:"grupo"`
	EstoqueSistema decimal.Decimal `json:"estoque_sistema"`
	EstoqueContado decimal.Decimal `json:"estoque_contado"`
	Diferenca      decimal.Decimal `json:"diferenca"`
}

// Compute joins the system report with counted totals. Every report row
// appears once in the output even if it was never counted. Totals are
// matched on the exact code first, then on the scan-normalized code.
func Compute(system []models.ReportRow, totals map[string]decimal.Decimal) []Row {
	normalized := make(map[string]decimal.Decimal, len(totals))
	for code, qty := range totals {
		key := ean.Normalize(code)
		normalized[key] = normalized[key].Add(qty)
	}

	rows := make([]Row, 0, len(system))
	for _, r := range system {
		code := strings.TrimSpace(r.EAN)
		counted, ok := totals[code]
		if !ok {
			if key := ean.Normalize(code); key != "" {
				counted = normalized[key]
			}
		}

		sistema := numfmt.GroupedOrZero(r.EstoqueSistema)
		rows = append(rows, Row{
			EAN:            code,
			Descricao:      r.Descricao,
			Secao:          r.Secao,
			Grupo:          r.Grupo,
			EstoqueSistema: sistema,
			EstoqueContado: counted,
			Diferenca:      counted.Sub(sistema),
		})
	}
	return rows
}

// Summary aggregates an audit.
type Summary struct {
	TotalProducts  int             `json:"total_products"`
	Counted        int             `json:"counted"`
	WithDifference int             `json:"with_difference"`
	Positive       int             `json:"positive"`
	Negative       int             `json:"negative"`
	SumDifference  decimal.Decimal `json:"sum_difference"`
}

func Summarize(rows []Row) Summary {
	s := Summary{TotalProducts: len(rows), SumDifference: decimal.Zero}
	for _, r := range rows {
		if !r.EstoqueContado.IsZero() {
			s.Counted++
		}
		switch r.Diferenca.Sign() {
		case 1:
			s.Positive++
			s.WithDifference++
		case -1:
			s.Negative++
			s.WithDifference++
		}
		s.SumDifference = s.SumDifference.Add(r.Diferenca)
	}
	return s
}

// DiffFilter selects rows by the sign of their difference.
type DiffFilter string

const (
	DiffAny      DiffFilter = ""
	DiffPositive DiffFilter = "positive"
	DiffNegative DiffFilter = "negative"
	DiffZero     DiffFilter = "zero"
	DiffNonZero  DiffFilter = "nonzero"
)

// Filter narrows an audit. Empty fields do not filter. Conditions are
// applied as a conjunction in field order.
type Filter struct {
	Secao       string
	Grupo       string
	Diff        DiffFilter
	OnlyCounted bool
}

func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Secao != "" && r.Secao != f.Secao {
			continue
		}
		if f.Grupo != "" && r.Grupo != f.Grupo {
			continue
		}
		if !f.Diff.match(r.Diferenca) {
			continue
		}
		if f.OnlyCounted && r.EstoqueContado.IsZero() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (d DiffFilter) match(v decimal.Decimal) bool {
	switch d {
	case DiffPositive:
		return v.Sign() > 0
	case DiffNegative:
		return v.Sign() < 0
	case DiffZero:
		return v.IsZero()
	case DiffNonZero:
		return !v.IsZero()
	default:
		return true
	}
}

// Valid reports whether d is a known filter value.
func (d DiffFilter) Valid() bool {
	switch d {
	case DiffAny, DiffPositive, DiffNegative, DiffZero, DiffNonZero:
		return true
	}
	return false
}

// Sections lists the distinct non-empty sections, sorted.
func Sections(rows []Row) []string {
	return distinct(rows, func(r Row) (string, bool) { return r.Secao, true })
}

// GroupsFor lists the groups present in secao (all groups when secao is empty).
func GroupsFor(rows []Row, secao string) []string {
	return distinct(rows, func(r Row) (string, bool) {
		return r.Grupo, secao == "" || r.Secao == secao
	})
}

func distinct(rows []Row, pick func(Row) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v, ok := pick(r)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
