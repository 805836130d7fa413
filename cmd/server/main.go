/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Skywage roster pay engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize SQLite store
  3. Build the rate table
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment, environment overrides defaults.
  -port / PORT          HTTP server port (default: 8080)
  -db / DB_PATH         SQLite database path (default: skywage.db)
                        Use ":memory:" for in-memory database
  -base / HOME_BASE     Home base airport code (default: DXB)
  -rates / RATES_PATH   Optional JSON rate table override

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/skywage.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with custom rates
  ./server -rates=./rates.json

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skywage/roster-engine/api"
	"github.com/skywage/roster-engine/rates"
	"github.com/skywage/roster-engine/roster"
	"github.com/skywage/roster-engine/store/sqlite"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	// Flags
	port := flag.String("port", envOr("PORT", "8080"), "HTTP server port")
	dbPath := flag.String("db", envOr("DB_PATH", "skywage.db"), "SQLite database path")
	homeBase := flag.String("base", envOr("HOME_BASE", roster.DefaultHomeBase), "Home base airport code")
	ratesPath := flag.String("rates", envOr("RATES_PATH", ""), "JSON rate table override")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Rate table
	table := rates.Default()
	if *ratesPath != "" {
		raw, err := os.ReadFile(*ratesPath)
		if err != nil {
			log.Fatalf("Failed to read rate table: %v", err)
		}
		table, err = rates.Parse(raw)
		if err != nil {
			log.Fatalf("Failed to parse rate table: %v", err)
		}
	}

	// Initialize handler and router
	handler := api.NewHandler(store, table, roster.Options{HomeBase: *homeBase})
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", *port)
		log.Printf("📊 API available at http://localhost:%s/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
