package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/dvalle/modastore-golang/internal/auth"
	"github.com/dvalle/modastore-golang/internal/config"
	"github.com/dvalle/modastore-golang/internal/database"
	"github.com/dvalle/modastore-golang/internal/handlers"
	"github.com/dvalle/modastore-golang/internal/paypal"
	"github.com/dvalle/modastore-golang/internal/routes"
	"github.com/dvalle/modastore-golang/internal/store"
)

func main() {
	// 1. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()
	if cfg.DSN == "" {
		log.Fatal("CRITICAL ERROR: DB_DSN environment variable is not set.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}

	// 2. --- Database Connection Pool ---
	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 3. --- Application Setup ---
	// Inject ALL dependencies (store, tokens, payment client) into Handlers.
	app := &handlers.Handlers{
		Store:  store.New(db),
		Tokens: auth.NewTokenService(cfg.JWTSecret),
		PayPal: paypal.NewClient(cfg.PayPal),
		Config: cfg,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	log.Printf("Starting ModaStore API server on %s...", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
