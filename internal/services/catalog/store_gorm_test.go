package catalog

import (
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=postgres dbname=inventario sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestUpsertSQLSkipsUnchangedRows(t *testing.T) {
	db := dryRunDB(t)
	p := models.Product{EAN: "7891000000001", Descricao: "Arroz"}

	stmt := db.Clauses(upsertProduct).Create(&p).Statement
	sql := stmt.SQL.String()

	for _, want := range []string{
		`INSERT INTO "produtos"`,
		`ON CONFLICT ("ean") DO UPDATE SET`,
		`"descricao"="excluded"."descricao"`,
		"produtos.descricao IS DISTINCT FROM excluded.descricao",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("SQL %q does not contain %q", sql, want)
		}
	}
}

func TestInsertSQLDoesNothingOnConflict(t *testing.T) {
	db := dryRunDB(t)
	p := models.Product{EAN: "1"}

	stmt := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ean"}}, DoNothing: true}).Create(&p).Statement
	if sql := stmt.SQL.String(); !strings.Contains(sql, `ON CONFLICT ("ean") DO NOTHING`) {
		t.Errorf("unexpected SQL %q", sql)
	}
}
