package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/config"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/database"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/catalog"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/ledger"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/users"
)

func main() {
	fmt.Println("🌱 Inventory Demo Data Seeder")
	fmt.Println(strings.Repeat("=", 60))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	fmt.Println("🔨 Running database migrations...")
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount > 0 {
		fmt.Printf("⚠️  Database already has %d products. Clear it first? (y/N): ", productCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE contagens CASCADE")
		db.Exec("TRUNCATE TABLE import_runs CASCADE")
		db.Exec("TRUNCATE TABLE produtos CASCADE")
		fmt.Println("✅ Data cleared")
	}

	ctx := context.Background()
	catalogSvc := catalog.NewService(catalog.NewGormStore(db.DB), nil, events.Nop{})
	ledgerSvc := ledger.NewService(ledger.NewGormStore(db.DB), catalogSvc, events.Nop{})
	userSvc := users.NewService(users.NewGormStore(db.DB))

	// 1. Users
	fmt.Println("👤 Creating users...")
	accounts := []users.RegisterInput{
		{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
		{Username: "conferente1", Password: "conta123"},
		{Username: "conferente2", Password: "conta123"},
	}
	ids := make([]string, 0, len(accounts))
	for _, in := range accounts {
		u, err := userSvc.Register(ctx, in)
		if errors.Is(err, apperr.ErrConflict) {
			fmt.Printf("   • %s already exists\n", in.Username)
			continue
		}
		if err != nil {
			log.Fatalf("❌ Failed to create user %s: %v", in.Username, err)
		}
		ids = append(ids, u.ID)
		fmt.Printf("   ✓ %s (%s)\n", u.Username, u.Role)
	}
	fmt.Println()

	// 2. Products
	fmt.Println("📦 Creating products...")
	products := []models.ReportRow{
		{EAN: "7891000100103", Descricao: "LEITE CONDENSADO MOCA 395G", Emb: "UN", Secao: "MERCEARIA", Grupo: "DOCES"},
		{EAN: "7896005800018", Descricao: "ARROZ TIPO 1 5KG", Emb: "UN", Secao: "MERCEARIA", Grupo: "GRAOS"},
		{EAN: "7896102000320", Descricao: "FEIJAO CARIOCA 1KG", Emb: "UN", Secao: "MERCEARIA", Grupo: "GRAOS"},
		{EAN: "7891910000197", Descricao: "ACUCAR REFINADO 1KG", Emb: "UN", Secao: "MERCEARIA", Grupo: "DOCES"},
		{EAN: "7894900011517", Descricao: "REFRIGERANTE COLA 2L", Emb: "UN", Secao: "BEBIDAS", Grupo: "REFRIGERANTES"},
		{EAN: "2000000000015", Descricao: "PAO FRANCES", Emb: "KG", Secao: "PADARIA", Grupo: "PAES"},
		{EAN: "2000000000022", Descricao: "QUEIJO MUSSARELA", Emb: "KG", Secao: "FRIOS", Grupo: "QUEIJOS"},
		{EAN: "7891150037830", Descricao: "SABAO EM PO 1KG", Emb: "CX", Secao: "LIMPEZA", Grupo: "ROUPAS"},
	}
	res, err := catalogSvc.BulkUpsert(ctx, products)
	if err != nil {
		log.Fatalf("❌ Failed to create products: %v", err)
	}
	fmt.Printf("✅ Created %d products\n\n", res.Applied)

	// 3. Counts
	if len(ids) > 1 {
		fmt.Println("🔢 Registering counts...")
		counts := []struct {
			user int
			ean  string
			qty  string
		}{
			{1, "7891000100103", "24"},
			{1, "7896005800018", "10"},
			{2, "7896005800018", "3"},
			{1, "2000000000015", "4,750"},
			{2, "2000000000022", "1,2"},
			{2, "7894900011517", "36"},
		}
		for _, c := range counts {
			if c.user >= len(ids) {
				continue
			}
			count, err := ledgerSvc.Register(ctx, ids[c.user], c.ean, c.qty)
			if err != nil {
				log.Printf("⚠️  Failed to count %s: %v", c.ean, err)
				continue
			}
			fmt.Printf("   ✓ %s → %s\n", count.EAN, count.Quantidade)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🎉 Demo data created successfully!")
	fmt.Println()
	fmt.Println("🚀 Inspect the data:")
	fmt.Println("   go run ./cmd/show_data")
	fmt.Println()
	fmt.Println("🌐 Or start the server:")
	fmt.Println("   go run ./cmd/api")
	fmt.Println("   Then log in as admin / admin123")
	fmt.Println(strings.Repeat("=", 60))
}
