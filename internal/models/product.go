package models

import (
	"strings"
	"time"
)

// Product is one catalog entry keyed by its normalized EAN.
type Product struct {
	EAN       string    `gorm:"primaryKey;type:varchar(32)" json:"ean"`
	Descricao string    `gorm:"not null;default:''" json:"descricao"`
	Emb       string    `gorm:"not null;default:''" json:"emb"`
	Secao     string    `gorm:"index;not null;default:''" json:"secao"`
	Grupo     string    `gorm:"index;not null;default:''" json:"grupo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "produtos" }

// DiffFields lists the descriptive attributes that differ between p and o,
// compared trimmed and case-insensitively.
func (p Product) DiffFields(o Product) []string {
	var fields []string
	if !sameText(p.Descricao, o.Descricao) {
		fields = append(fields, "descricao")
	}
	if !sameText(p.Emb, o.Emb) {
		fields = append(fields, "emb")
	}
	if !sameText(p.Secao, o.Secao) {
		fields = append(fields, "secao")
	}
	if !sameText(p.Grupo, o.Grupo) {
		fields = append(fields, "grupo")
	}
	return fields
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
