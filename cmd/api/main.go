package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/config"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/database"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/handlers"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ingest"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/catalog"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/ledger"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/users"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Optional infrastructure: Redis cache + rate limiter, Kafka event stream
	rdb, err := database.ConnectRedis(cfg.Redis.URL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, continuing without cache: %v", err)
		rdb = nil
	}
	kafkaPub := events.NewKafkaPublisher(cfg.Kafka)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	publisher := events.Multi{hub, kafkaPub}

	// 5. Services
	catalogSvc := catalog.NewService(catalog.NewGormStore(db.DB), catalog.NewCache(rdb), publisher)
	ledgerSvc := ledger.NewService(ledger.NewGormStore(db.DB), catalogSvc, publisher)
	userSvc := users.NewService(users.NewGormStore(db.DB))

	// 6. Set up HTTP router
	router := handlers.NewRouter(handlers.Deps{
		Catalog:        catalogSvc,
		Ledger:         ledgerSvc,
		Users:          userSvc,
		Formats:        ingest.NewDefaultRegistry(),
		Hub:            hub,
		Redis:          rdb,
		JWTSecret:      cfg.JWTSecret,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		ExportEncoding: cfg.Export.Encoding,
		FrontendDir:    os.Getenv("FRONTEND_DIR"),
	})

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Inventory server (%s) starting on port %s\n", cfg.NodeEnv, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the live feed
	stop()

	if err := kafkaPub.Close(); err != nil {
		log.Printf("Kafka close error: %v", err)
	}
	if err := database.CloseRedis(rdb); err != nil {
		log.Printf("Redis close error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
