package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/audit"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/numfmt"
)

// AuditPDF renders the audit summary followed by the row table on landscape A4.
func AuditPDF(rows []audit.Row, summary audit.Summary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	cols := []struct {
		title string
		width float64
		align string
	}{
		{"EAN", 35, "L"},
		{"Descrição", 95, "L"},
		{"Seção", 35, "L"},
		{"Grupo", 35, "L"},
		{"Sistema", 25, "R"},
		{"Contado", 25, "R"},
		{"Diferença", 27, "R"},
	}

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range cols {
			pdf.CellFormat(c.width, 6, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr("Auditoria de estoque"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, generatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	lines := []string{
		fmt.Sprintf("Produtos: %d", summary.TotalProducts),
		fmt.Sprintf("Contados: %d", summary.Counted),
		fmt.Sprintf("Com diferença: %d (positivas %d, negativas %d)", summary.WithDifference, summary.Positive, summary.Negative),
		fmt.Sprintf("Soma das diferenças: %s", numfmt.Display(summary.SumDifference)),
	}
	for _, l := range lines {
		pdf.CellFormat(0, 5, tr(l), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	header()
	_, pageH := pdf.GetPageSize()
	for _, r := range rows {
		if pdf.GetY()+6 > pageH-12 {
			pdf.AddPage()
			header()
		}
		values := []string{
			r.EAN,
			truncate(r.Descricao, 60),
			truncate(r.Secao, 20),
			truncate(r.Grupo, 20),
			numfmt.Display(r.EstoqueSistema),
			numfmt.Display(r.EstoqueContado),
			numfmt.Display(r.Diferenca),
		}
		for i, c := range cols {
			if i == len(cols)-1 {
				switch r.Diferenca.Sign() {
				case -1:
					pdf.SetTextColor(180, 0, 0)
				case 1:
					pdf.SetTextColor(0, 110, 0)
				}
			}
			pdf.CellFormat(c.width, 5, tr(values[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
