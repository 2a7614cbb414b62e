package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

const upsertBatchSize = 500

// attributesChanged guards DO UPDATE so identical rows are not rewritten.
var attributesChanged = clause.Where{Exprs: []clause.Expression{clause.Expr{
	SQL: "produtos.descricao IS DISTINCT FROM excluded.descricao OR " +
		"produtos.emb IS DISTINCT FROM excluded.emb OR " +
		"produtos.secao IS DISTINCT FROM excluded.secao OR " +
		"produtos.grupo IS DISTINCT FROM excluded.grupo",
}}}

var upsertProduct = clause.OnConflict{
	Columns:   []clause.Column{{Name: "ean"}},
	DoUpdates: clause.AssignmentColumns([]string{"descricao", "emb", "secao", "grupo", "updated_at"}),
	Where:     attributesChanged,
}

// GormStore is the PostgreSQL catalog.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, ean string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("ean = ?", ean).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("get product", err)
	}
	return &p, nil
}

func (s *GormStore) Insert(ctx context.Context, p models.Product) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ean"}}, DoNothing: true}).
		Create(&p)
	if res.Error != nil {
		return false, apperr.Storage("insert product", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) Upsert(ctx context.Context, p models.Product) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(upsertProduct).Create(&p)
	if res.Error != nil {
		return false, apperr.Storage("upsert product", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) BulkUpsert(ctx context.Context, ps []models.Product) (int, error) {
	if len(ps) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(upsertProduct).CreateInBatches(&ps, upsertBatchSize)
	if res.Error != nil {
		return 0, apperr.Storage("bulk upsert products", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.WithContext(ctx).Order("ean").Find(&products).Error; err != nil {
		return []models.Product{}, apperr.Storage("list products", err)
	}
	return products, nil
}

func (s *GormStore) Distinct(ctx context.Context, column string) ([]string, error) {
	if err := checkColumn(column); err != nil {
		return []string{}, err
	}
	values := []string{}
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return []string{}, apperr.Storage("distinct "+column, err)
	}
	return values, nil
}

func (s *GormStore) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return apperr.Storage("record import run", err)
	}
	return nil
}

func (s *GormStore) ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	runs := []models.ImportRun{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return []models.ImportRun{}, apperr.Storage("list import runs", err)
	}
	return runs, nil
}
