package database

import (
	"fmt"
	"log"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/config"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// DB wraps gorm.DB and the embedded server when one was started
type DB struct {
	*gorm.DB
	embedded *embeddedpostgres.EmbeddedPostgres
}

// DSN renders the libpq connection string for cfg
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// gormConfig translates driver errors so duplicate keys surface as
// gorm.ErrDuplicatedKey.
func gormConfig(debug bool) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect opens PostgreSQL. Localhost without a password starts the
// embedded server first.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	var embedded *embeddedpostgres.EmbeddedPostgres
	if cfg.Embedded() {
		pg, err := startEmbedded(&cfg)
		if err != nil {
			return nil, err
		}
		embedded = pg
	} else {
		log.Printf("🌐 Mode: [External PostgreSQL] - Connecting to %s:%s\n", cfg.Host, cfg.Port)
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), gormConfig(cfg.Debug))
	if err != nil {
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Println("✅ Database connection established")
	return &DB{DB: db, embedded: embedded}, nil
}

// Close shuts the pool and then the embedded server
func (db *DB) Close() error {
	var closeErr error
	if sqlDB, err := db.DB.DB(); err == nil {
		closeErr = sqlDB.Close()
	}
	if db.embedded != nil {
		log.Println("🛑 Stopping Embedded PostgreSQL process...")
		if err := db.embedded.Stop(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// Migrate creates or updates the inventory schema. Products must exist
// before counts because of the contagens.ean foreign key. pgcrypto backs
// gen_random_uuid() on servers older than 13.
func (db *DB) Migrate() error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("⚠️ pgcrypto unavailable: %v", err)
	}
	if err := db.DB.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Count{},
		&models.ImportRun{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Println("✅ Database schema is up to date")
	return nil
}
