package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrConflict
	}
	if err != nil {
		return apperr.Storage("create user", err)
	}
	return nil
}

func (s *GormStore) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return &u, nil
}

func (s *GormStore) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	return s.first(ctx, "username = ? OR email = ?", identifier, identifier)
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count users", err)
	}
	return n, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return []models.User{}, apperr.Storage("list users", err)
	}
	return users, nil
}

func (s *GormStore) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res := s.db.WithContext(ctx).Where("username = ?", username).Delete(&models.User{})
	if res.Error != nil {
		return 0, apperr.Storage("delete user", res.Error)
	}
	return res.RowsAffected, nil
}
