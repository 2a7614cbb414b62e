// Package ledger records how much of each product every user counted.
// A user has one row per product; registering a count adds to it.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// Store persists counts. Increment must be atomic with respect to
// concurrent increments of the same (uid, ean) pair.
type Store interface {
	Increment(ctx context.Context, uid, ean string, qty decimal.Decimal, at time.Time) (*models.Count, error)
	// SetQuantity returns apperr.ErrNotFound for an unknown id.
	SetQuantity(ctx context.Context, id uint, qty decimal.Decimal, at time.Time) (*models.Count, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteByUser(ctx context.Context, uid string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	TotalForProduct(ctx context.Context, ean string) (decimal.Decimal, error)
	Totals(ctx context.Context) (map[string]decimal.Decimal, error)
	// ListDetailed joins users and products; uid "" lists every user.
	// Rows are ordered by username, then most recently updated first.
	ListDetailed(ctx context.Context, uid string) ([]models.CountWithProduct, error)
}
