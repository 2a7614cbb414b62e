// Package catalog owns the product catalog: lookups, insert-if-absent,
// attribute upserts and report-driven imports.
package catalog

import (
	"context"
	"fmt"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// Store persists products and import history. Implementations must make
// Upsert and BulkUpsert skip rows whose attributes did not change.
type Store interface {
	Get(ctx context.Context, ean string) (*models.Product, error)
	// Insert adds p unless the EAN exists; created is false on conflict.
	Insert(ctx context.Context, p models.Product) (created bool, err error)
	Upsert(ctx context.Context, p models.Product) (changed bool, err error)
	// BulkUpsert returns how many rows were inserted or changed.
	BulkUpsert(ctx context.Context, ps []models.Product) (int, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Distinct(ctx context.Context, column string) ([]string, error)

	CreateImportRun(ctx context.Context, run *models.ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}

// Columns accepted by Store.Distinct.
const (
	ColumnEmb   = "emb"
	ColumnSecao = "secao"
	ColumnGrupo = "grupo"
)

func checkColumn(column string) error {
	switch column {
	case ColumnEmb, ColumnSecao, ColumnGrupo:
		return nil
	}
	return fmt.Errorf("column %q has no distinct accessor", column)
}
