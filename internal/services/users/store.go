// Package users manages counting accounts and the single administrator.
package users

import (
	"context"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// Store persists users. Create returns apperr.ErrConflict when the username
// or email is taken.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	// FindByLogin matches identifier against username or email; nil when absent.
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}
