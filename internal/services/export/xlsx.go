package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// CountsXLSX renders the count report as a single-sheet workbook with
// numeric quantity cells.
func CountsXLSX(rows []models.CountWithProduct) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contagens"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"EAN", "Descrição", "Emb", "Seção", "Grupo", "Usuário", "Quantidade", "Atualizado em"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		qty, _ := r.Quantidade.Float64()
		values := []interface{}{
			r.EAN, r.Descricao, r.Emb, r.Secao, r.Grupo, r.Username,
			qty, r.LastUpdatedAt.Format(timeLayout),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	// EAN as text so spreadsheets keep leading zeros.
	style, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err == nil {
		_ = f.SetColStyle(sheet, "A", style)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
