/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the back office server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Optionally import catalog CSV files
  4. Create the ledger, API handler and HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: backoffice.db)
             Use ":memory:" for an in-memory database
  -discount  Store-wide discount rate applied to every sale (default: 0.10)
  -import    Directory of CSV files to load at startup (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/backoffice.db"

  # Load catalog data and use a 15% discount
  ./server -import=./data/csv -discount=0.15

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

	"github.com/shopspring/decimal"

	"github.com/warp/backoffice/api"
	"github.com/warp/backoffice/importer"
	"github.com/warp/backoffice/pos"
	"github.com/warp/backoffice/sales"
	"github.com/warp/backoffice/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "backoffice.db", "SQLite database path")
	discount := flag.String("discount", "0.10", "store-wide discount rate (0 <= rate < 1)")
	importDir := flag.String("import", "", "directory of CSV files to load at startup")
	flag.Parse()

	// Config
	cfg := pos.DefaultConfig()
	rate, err := decimal.NewFromString(*discount)
	if err != nil {
		log.Fatalf("Invalid discount rate %q: %v", *discount, err)
	}
	cfg.DiscountRate = rate
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Optional CSV import
	if *importDir != "" {
		loader := importer.NewLoader(store)
		sum, err := loader.LoadDir(context.Background(), *importDir)
		if err != nil {
			log.Fatalf("CSV import failed: %v", err)
		}
		log.Printf("Imported %d categories, %d products, %d customers, %d employees (%d skipped)",
			sum.Categories, sum.Products, sum.Customers, sum.Employees, sum.Skipped)
	}

	// Initialize ledger and handler
	ledger := sales.NewLedger(store, cfg)
	handler := api.NewHandler(store, ledger)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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
