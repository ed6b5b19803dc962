/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. Throttle:   Token-bucket rate limit on writes

ROUTE GROUPS:
  /api/categories/*     Category management
  /api/products/*       Product catalog and stock
  /api/customers/*      Customer registry
  /api/employees/*      Employee registry
  /api/sales/*          Sale ledger
  /api/reports/*        Reporting engine
  /api/admin/*          Admin operations
  /api/reset            Database reset (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// writeRateLimit caps mutating requests at 20 rps with bursts of 40,
// enough headroom for a busy counter while shielding SQLite from floods.
const (
	writeRateLimit = 20
	writeRateBurst = 40
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	limiter := rate.NewLimiter(rate.Limit(writeRateLimit), writeRateBurst)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.With(throttle(limiter)).Post("/", h.SaveCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.With(throttle(limiter)).Post("/", h.SaveProduct)
			r.Get("/low-stock", h.LowStock)
			r.Get("/{id}", h.GetProduct)
			r.With(throttle(limiter)).Post("/{id}/restock", h.Restock)
		})

		// Party routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.With(throttle(limiter)).Post("/", h.CreateCustomer)
			r.Get("/{id}", h.GetCustomer)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.With(throttle(limiter)).Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)
		})

		// Sale ledger routes
		r.Route("/sales", func(r chi.Router) {
			r.With(throttle(limiter)).Post("/", h.ExecuteSale)
			r.Get("/", h.SalesHistory)
			r.Get("/{id}", h.GetSale)
			r.Get("/{id}/receipt", h.GetReceipt)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/period/{period}/total", h.PeriodTotal)
			r.Get("/period/{period}/employees", h.EmployeePerformance)
			r.Get("/period/{period}/best", h.BestEmployee)
			r.Get("/period/{period}/detail", h.PeriodDetail)
			r.Get("/top-sellers", h.TopSellers)
			r.Get("/top-customers", h.TopCustomers)
			r.Get("/years", h.SaleYears)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}

// throttle rejects requests with 429 once the shared token bucket is
// drained. Applied to mutating routes only; reads are unthrottled.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
