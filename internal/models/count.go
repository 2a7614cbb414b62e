package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Count is the accumulated quantity one user counted for one product.
// The (usuario_uid, ean) pair is unique.
type Count struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UsuarioUID    string          `gorm:"type:uuid;not null;uniqueIndex:idx_contagens_usuario_ean" json:"usuario_uid"`
	EAN           string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_contagens_usuario_ean;index" json:"ean"`
	Quantidade    decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0" json:"quantidade"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
	CreatedAt     time.Time       `json:"created_at"`

	Product *Product `gorm:"foreignKey:EAN;references:EAN;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Count) TableName() string { return "contagens" }

// CountWithProduct is the joined report row: count, counting user and
// product attributes.
type CountWithProduct struct {
	ID            uint            `json:"id"`
	UsuarioUID    string          `json:"usuario_uid"`
	Username      string          `json:"username"`
	EAN           string          `json:"ean"`
	Descricao     string          `json:"descricao"`
	Emb           string          `json:"emb"`
	Secao         string          `json:"secao"`
	Grupo         string          `json:"grupo"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
}
