package ingest

import (
	"fmt"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// FormatGeneric is the plain product sheet: one row per product with
// ean, descricao, emb, secao and grupo columns.
const FormatGeneric = "generic_csv"

var genericRequired = []string{"ean", "descricao", "emb", "secao", "grupo"}

var genericAliases = map[string][]string{
	"ean":             {"ean"},
	"descricao":       {"descricao"},
	"emb":             {"emb"},
	"secao":           {"secao"},
	"grupo":           {"grupo"},
	"estoque_sistema": {"estoque sistema"},
}

// GenericAdapter reads CSV (any common delimiter, UTF-8 or Latin-1) and
// XLSX product sheets.
type GenericAdapter struct{}

func (GenericAdapter) Format() string { return FormatGeneric }

func (GenericAdapter) Parse(data []byte) ([]models.ReportRow, error) {
	if len(data) == 0 {
		return nil, &ParseError{Format: FormatGeneric, Err: fmt.Errorf("file is empty")}
	}

	var (
		t   *table
		err error
	)
	if isXLSX(data) {
		t, err = readXLSX(FormatGeneric, data)
	} else {
		t, err = readCSV(FormatGeneric, data, 0)
	}
	if err != nil {
		return nil, err
	}

	start := 0
	for start < len(t.records) && blank(t.records[start]) {
		start++
	}
	if start == len(t.records) {
		return nil, &ParseError{Format: FormatGeneric, Err: fmt.Errorf("file has no header row")}
	}

	header := t.records[start]
	idx := columnIndex(header, genericAliases)

	var missing []string
	for _, col := range genericRequired {
		if idx[col] < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &apperr.MissingColumnsError{
			Expected: genericRequired,
			Found:    trimmedLower(header),
			Missing:  missing,
		}
	}

	rows := make([]models.ReportRow, 0, len(t.records)-start-1)
	for i := start + 1; i < len(t.records); i++ {
		rec := t.records[i]
		if blank(rec) {
			continue
		}
		rows = append(rows, models.ReportRow{
			EAN:            cell(rec, idx["ean"]),
			Descricao:      cell(rec, idx["descricao"]),
			Emb:            cell(rec, idx["emb"]),
			Secao:          cell(rec, idx["secao"]),
			Grupo:          cell(rec, idx["grupo"]),
			EstoqueSistema: cell(rec, idx["estoque_sistema"]),
			Line:           t.lines[i],
		})
	}
	return rows, nil
}
