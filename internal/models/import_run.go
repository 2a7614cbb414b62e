package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportRun records one applied catalog import.
type ImportRun struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Format    string         `gorm:"not null" json:"format"`
	FileName  string         `json:"file_name"`
	Mode      string         `gorm:"not null" json:"mode"`
	New       int            `json:"new"`
	Missing   int            `json:"missing"`
	Divergent int            `json:"divergent"`
	Invalid   int            `json:"invalid"`
	Applied   int            `json:"applied"`
	Summary   datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
}

func (ImportRun) TableName() string { return "import_runs" }
