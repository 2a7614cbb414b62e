package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func TestIncrementIsOneAtomicStatement(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=inventario sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	store := NewGormStore(db)
	c := models.Count{
		UsuarioUID:    "11111111-1111-1111-1111-111111111111",
		EAN:           "7891000000001",
		Quantidade:    decimal.NewFromInt(2),
		LastUpdatedAt: time.Now(),
	}
	sql := store.incrementStmt(context.Background(), &c).Statement.SQL.String()

	for _, want := range []string{
		`INSERT INTO "contagens"`,
		`ON CONFLICT ("usuario_uid","ean") DO UPDATE SET`,
		"contagens.quantidade + excluded.quantidade",
		"excluded.last_updated_at",
		"RETURNING *",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("SQL %q does not contain %q", sql, want)
		}
	}
	if strings.HasPrefix(strings.TrimSpace(sql), "SELECT") {
		t.Error("increment must not read before writing")
	}
}
