package main

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/numfmt"
)

func main() {
	// Connect directly to a running server's database (embedded by default)
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=inventario port=5433 sslmode=disable client_encoding=UTF8"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		fmt.Printf("❌ Failed to connect: %v\n", err)
		fmt.Println("\n💡 Try starting the server first:")
		fmt.Println("   go run ./cmd/api")
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║            📊 Inventory Data Report                       ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	var productCount, countCount, userCount, importCount int64
	db.Model(&models.Product{}).Count(&productCount)
	db.Model(&models.Count{}).Count(&countCount)
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.ImportRun{}).Count(&importCount)

	fmt.Println("📈 DATABASE STATISTICS")
	fmt.Println("──────────────────────────────────────────────────────────")
	fmt.Printf("  Products:      %5d\n", productCount)
	fmt.Printf("  Counts:        %5d\n", countCount)
	fmt.Printf("  Users:         %5d\n", userCount)
	fmt.Printf("  Imports:       %5d\n", importCount)
	fmt.Println()

	if countCount > 0 {
		var rows []models.CountWithProduct
		db.Table("contagens AS c").
			Select("c.id, c.usuario_uid, u.username, c.ean, p.descricao, p.emb, p.secao, p.grupo, c.quantidade, c.last_updated_at").
			Joins("LEFT JOIN usuarios u ON u.id = c.usuario_uid").
			Joins("LEFT JOIN produtos p ON p.ean = c.ean").
			Order("p.secao, p.descricao").
			Scan(&rows)

		fmt.Println("🔢 COUNTS")
		fmt.Println("──────────────────────────────────────────────────────────")
		section := "\x00"
		for _, r := range rows {
			if r.Secao != section {
				section = r.Secao
				fmt.Printf("  [%s]\n", emptyAs(section, "sem seção"))
			}
			fmt.Printf("    %s %-30s %8s %-3s (%s)\n", r.EAN, r.Descricao, numfmt.Display(r.Quantidade), r.Emb, emptyAs(r.Username, "?"))
		}
		fmt.Println()
	}

	var runs []models.ImportRun
	db.Order("created_at DESC").Limit(5).Find(&runs)
	if len(runs) > 0 {
		fmt.Println("📥 RECENT IMPORTS")
		fmt.Println("──────────────────────────────────────────────────────────")
		for _, r := range runs {
			fmt.Printf("  %s %s [%s] mode=%s new=%d divergent=%d missing=%d applied=%d\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.FileName, r.Format, r.Mode, r.New, r.Divergent, r.Missing, r.Applied)
		}
		fmt.Println()
	}
}

func emptyAs(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
