package printer

import (
	"bytes"
	"testing"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func TestGenerateShelfLabelsPDF(t *testing.T) {
	var products []models.Product
	for i := 0; i < 30; i++ {
		products = append(products, models.Product{EAN: "789100000000" + string(rune('0'+i%10)), Descricao: "Pão de Açúcar", Emb: "UN", Secao: "PADARIA"})
	}

	pdf, err := GenerateShelfLabelsPDF(products, LabelConfig{})
	if err != nil {
		t.Fatalf("GenerateShelfLabelsPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateShelfLabelsRejectsEmpty(t *testing.T) {
	if _, err := GenerateShelfLabelsPDF(nil, DefaultLabelConfig()); err == nil {
		t.Error("expected error for empty product list")
	}
}
