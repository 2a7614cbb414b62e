// Package export renders counts, reconciliations and audits as downloadable
// CSV, XLSX and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/audit"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/numfmt"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/reconcile"
)

const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"

	timeLayout = "2006-01-02 15:04:05"
)

// Options controls CSV output. Display switches numbers to the comma-decimal
// copy meant for spreadsheets opened by hand.
type Options struct {
	Encoding string
	Display  bool
}

// ContentType is the header value matching the chosen encoding.
func (o Options) ContentType() string {
	if o.Encoding == EncodingUTF8 {
		return "text/csv; charset=utf-8"
	}
	return "text/csv; charset=iso-8859-1"
}

func (o Options) number(d decimal.Decimal) string {
	if o.Display {
		return numfmt.Display(d)
	}
	return numfmt.Plain(d)
}

// writeCSV writes a semicolon delimited table in the configured charset.
// Characters outside Latin-1 are replaced rather than failing the download.
func writeCSV(w io.Writer, opts Options, header []string, rows [][]string) error {
	var out io.Writer = w
	var closer io.Closer
	if opts.Encoding != EncodingUTF8 {
		tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
		out, closer = tw, tw
	}

	cw := csv.NewWriter(out)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// Counts writes the detailed count report.
func Counts(w io.Writer, rows []models.CountWithProduct, opts Options) error {
	header := []string{"ean", "descricao", "emb", "secao", "grupo", "usuario", "quantidade", "atualizado_em"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.EAN, r.Descricao, r.Emb, r.Secao, r.Grupo, r.Username,
			opts.number(r.Quantidade),
			r.LastUpdatedAt.Format(timeLayout),
		})
	}
	return writeCSV(w, opts, header, out)
}

// Products writes a product list, used for the new and missing categories.
func Products(w io.Writer, products []models.Product, opts Options) error {
	header := []string{"ean", "descricao", "emb", "secao", "grupo"}
	out := make([][]string, 0, len(products))
	for _, p := range products {
		out = append(out, []string{p.EAN, p.Descricao, p.Emb, p.Secao, p.Grupo})
	}
	return writeCSV(w, opts, header, out)
}

// Divergences writes stored and external values side by side.
func Divergences(w io.Writer, divs []reconcile.Divergence, opts Options) error {
	header := []string{
		"ean", "campos",
		"descricao_atual", "descricao_relatorio",
		"emb_atual", "emb_relatorio",
		"secao_atual", "secao_relatorio",
		"grupo_atual", "grupo_relatorio",
	}
	out := make([][]string, 0, len(divs))
	for _, d := range divs {
		out = append(out, []string{
			d.EAN, strings.Join(d.Fields, ","),
			d.Stored.Descricao, d.External.Descricao,
			d.Stored.Emb, d.External.Emb,
			d.Stored.Secao, d.External.Secao,
			d.Stored.Grupo, d.External.Grupo,
		})
	}
	return writeCSV(w, opts, header, out)
}

// Audit writes the system versus counted comparison.
func Audit(w io.Writer, rows []audit.Row, opts Options) error {
	header := []string{"ean", "descricao", "secao", "grupo", "estoque_sistema", "estoque_contado", "diferenca"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.EAN, r.Descricao, r.Secao, r.Grupo,
			opts.number(r.EstoqueSistema),
			opts.number(r.EstoqueContado),
			opts.number(r.Diferenca),
		})
	}
	return writeCSV(w, opts, header, out)
}
