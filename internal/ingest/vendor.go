package ingest

import (
	"fmt"
	"regexp"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

const (
	// FormatVendor is the ERP product report: semicolon separated, Latin-1,
	// with section and group written as heading annotations.
	FormatVendor = "vendor_report"
	// FormatStock is the same layout with a system stock column.
	FormatStock = "stock_report"
)

var (
	sectionRe = regexp.MustCompile(`(?i)(?:section|se[cç][aã]o)\s*:\s*\d+\s*-\s*(.*?)\s*(?:(?:group|grupo)\s*:|$)`)
	groupRe   = regexp.MustCompile(`(?i)(?:group|grupo)\s*:\s*\d+\s*-\s*(.*?)\s*$`)
)

// Folded header names accepted for each canonical column.
var vendorAliases = map[string][]string{
	"ean":       {"codigo", "cod", "cod barras", "codigo de barras", "codigo barras", "cod produto", "codigo produto", "ean", "produto"},
	"descricao": {"descricao", "descricao produto", "descricao do produto", "nome", "produto descricao"},
	"emb":       {"emb", "embalagem", "un", "unid", "unidade"},
	"quebra":    {"quebra", "detalhamento", "breakdown", "secao grupo", "agrupamento"},
	"estoque":   {"estoque", "estoque atual", "estoque sistema", "saldo", "saldo atual", "qtd estoque", "quantidade estoque"},
}

// headerScanLimit bounds how far into a report preamble the header row is
// searched for.
const headerScanLimit = 50

// VendorAdapter parses the ERP report. With WithStock set it also requires
// the stock column and serves the audit upload.
type VendorAdapter struct {
	WithStock bool
}

func (a VendorAdapter) Format() string {
	if a.WithStock {
		return FormatStock
	}
	return FormatVendor
}

func (a VendorAdapter) required() []string {
	if a.WithStock {
		return []string{"ean", "descricao", "estoque"}
	}
	return []string{"ean", "descricao"}
}

func (a VendorAdapter) Parse(data []byte) ([]models.ReportRow, error) {
	format := a.Format()
	if len(data) == 0 {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("file is empty")}
	}

	t, err := readCSV(format, data, ';')
	if err != nil {
		return nil, err
	}

	headerAt, idx := a.findHeader(t)
	if headerAt < 0 {
		var found []string
		for _, rec := range t.records {
			if !blank(rec) {
				found = trimmedLower(rec)
				break
			}
		}
		return nil, &apperr.MissingColumnsError{
			Expected: a.required(),
			Found:    found,
			Missing:  a.missing(idx),
		}
	}

	var (
		rows          []models.ReportRow
		secao, grupo  string
		breakdownCols []int
	)
	if idx["quebra"] >= 0 {
		breakdownCols = []int{idx["quebra"]}
	}

	for i := headerAt + 1; i < len(t.records); i++ {
		rec := t.records[i]
		if blank(rec) {
			continue
		}

		cols := breakdownCols
		if cols == nil {
			cols = allColumns(rec)
		}
		for _, c := range cols {
			text := cell(rec, c)
			if m := sectionRe.FindStringSubmatch(text); m != nil && m[1] != "" {
				secao = m[1]
			}
			if m := groupRe.FindStringSubmatch(text); m != nil && m[1] != "" {
				grupo = m[1]
			}
		}

		raw := cell(rec, idx["ean"])
		if sectionRe.MatchString(raw) || groupRe.MatchString(raw) {
			continue
		}
		code := ean.Digits(raw)
		if code == "" {
			continue
		}

		row := models.ReportRow{
			EAN:       code,
			Descricao: cell(rec, idx["descricao"]),
			Emb:       cell(rec, idx["emb"]),
			Secao:     secao,
			Grupo:     grupo,
			Line:      t.lines[i],
		}
		if a.WithStock {
			row.EstoqueSistema = cell(rec, idx["estoque"])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// findHeader returns the first record carrying every required column. The
// index of the best partial match is returned alongside -1 for error reporting.
func (a VendorAdapter) findHeader(t *table) (int, map[string]int) {
	var best map[string]int
	bestHits := -1
	for i, rec := range t.records {
		if i >= headerScanLimit {
			break
		}
		if blank(rec) {
			continue
		}
		idx := columnIndex(rec, vendorAliases)
		hits := 0
		for _, col := range a.required() {
			if idx[col] >= 0 {
				hits++
			}
		}
		if hits == len(a.required()) {
			return i, idx
		}
		if hits > bestHits {
			best, bestHits = idx, hits
		}
	}
	if best == nil {
		best = map[string]int{}
	}
	return -1, best
}

func (a VendorAdapter) missing(idx map[string]int) []string {
	var out []string
	for _, col := range a.required() {
		if i, ok := idx[col]; !ok || i < 0 {
			out = append(out, col)
		}
	}
	return out
}

func allColumns(rec []string) []int {
	cols := make([]int, len(rec))
	for i := range rec {
		cols[i] = i
	}
	return cols
}
