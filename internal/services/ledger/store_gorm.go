package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// accumulate turns the insert into an increment when the pair exists.
var accumulate = clause.OnConflict{
	Columns: []clause.Column{{Name: "usuario_uid"}, {Name: "ean"}},
	DoUpdates: clause.Assignments(map[string]interface{}{
		"quantidade":      gorm.Expr("contagens.quantidade + excluded.quantidade"),
		"last_updated_at": gorm.Expr("excluded.last_updated_at"),
	}),
}

// GormStore is the PostgreSQL ledger.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) incrementStmt(ctx context.Context, c *models.Count) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(accumulate, clause.Returning{}).Create(c)
}

func (s *GormStore) Increment(ctx context.Context, uid, ean string, qty decimal.Decimal, at time.Time) (*models.Count, error) {
	c := models.Count{
		UsuarioUID:    uid,
		EAN:           ean,
		Quantidade:    qty,
		LastUpdatedAt: at,
	}
	if err := s.incrementStmt(ctx, &c).Error; err != nil {
		return nil, apperr.Storage("increment count", err)
	}
	return &c, nil
}

func (s *GormStore) SetQuantity(ctx context.Context, id uint, qty decimal.Decimal, at time.Time) (*models.Count, error) {
	var c models.Count
	res := s.db.WithContext(ctx).Model(&c).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"quantidade": qty, "last_updated_at": at})
	if res.Error != nil {
		return nil, apperr.Storage("update count", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (s *GormStore) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Count{})
	if res.Error != nil {
		return 0, apperr.Storage("delete count", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) DeleteByUser(ctx context.Context, uid string) (int64, error) {
	res := s.db.WithContext(ctx).Where("usuario_uid = ?", uid).Delete(&models.Count{})
	if res.Error != nil {
		return 0, apperr.Storage("delete user counts", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Count{})
	if res.Error != nil {
		return 0, apperr.Storage("delete all counts", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) TotalForProduct(ctx context.Context, ean string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Count{}).
		Select("COALESCE(SUM(quantidade), 0)").
		Where("ean = ?", ean).
		Row().Scan(&total)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, apperr.Storage("total for product", err)
	}
	return total, nil
}

func (s *GormStore) Totals(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []struct {
		EAN   string
		Total decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&models.Count{}).
		Select("ean, SUM(quantidade) AS total").
		Group("ean").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("count totals", err)
	}
	totals := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.EAN] = r.Total
	}
	return totals, nil
}

func (s *GormStore) ListDetailed(ctx context.Context, uid string) ([]models.CountWithProduct, error) {
	q := s.db.WithContext(ctx).Table("contagens AS c").
		Select("c.id, c.usuario_uid, COALESCE(u.username, '') AS username, c.ean, " +
			"COALESCE(p.descricao, '') AS descricao, COALESCE(p.emb, '') AS emb, " +
			"COALESCE(p.secao, '') AS secao, COALESCE(p.grupo, '') AS grupo, " +
			"c.quantidade, c.last_updated_at").
		Joins("LEFT JOIN usuarios u ON u.id = c.usuario_uid").
		Joins("LEFT JOIN produtos p ON p.ean = c.ean").
		Order("username ASC, c.last_updated_at DESC")
	if uid != "" {
		q = q.Where("c.usuario_uid = ?", uid)
	}

	rows := []models.CountWithProduct{}
	if err := q.Scan(&rows).Error; err != nil {
		return []models.CountWithProduct{}, apperr.Storage("list counts", err)
	}
	return rows, nil
}
