/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. Logger:     Structured request log (zerolog)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/reps/*                 Reps and statements
  /api/products/*             Product catalog
  /api/consignments ...       Transaction records
  /api/balances, /inventory   Derived reports
  /api/settlement-periods/*   Period lifecycle
  /api/lock                   Lock check
  /api/commission-settings/*  Commission rates
  /api/scenarios/*            Demo data

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// DefaultAllowedOrigins are the local frontend dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/reps", func(r chi.Router) {
			r.Get("/", h.ListReps)
			r.Post("/", h.CreateRep)
			r.Get("/{id}", h.GetRep)
			r.Get("/{id}/statement", h.GetStatement)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
		})

		// Transaction routes
		r.Get("/consignments", h.ListConsignments)
		r.Post("/consignments", h.CreateConsignment)
		r.Get("/sales", h.ListSales)
		r.Post("/sales", h.CreateSale)
		r.Get("/returns", h.ListReturns)
		r.Post("/returns", h.CreateReturn)
		r.Get("/payouts", h.ListPayouts)
		r.Post("/payouts", h.CreatePayout)
		r.Get("/adjustments", h.ListAdjustments)
		r.Post("/adjustments", h.CreateAdjustment)

		// Reports
		r.Get("/balances", h.GetBalances)
		r.Get("/inventory", h.GetInventory)

		r.Route("/settlement-periods", func(r chi.Router) {
			r.Get("/", h.ListPeriods)
			r.Post("/", h.CreatePeriod)
			r.Get("/{id}", h.GetPeriod)
			r.Post("/{id}/close", h.ClosePeriod)
		})
		r.Get("/lock", h.CheckLock)

		r.Route("/commission-settings", func(r chi.Router) {
			r.Get("/", h.GetCommissionSettings)
			r.Put("/default", h.SetDefaultCommission)
			r.Put("/overrides/{repId}", h.SetCommissionOverride)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/demo", h.LoadDemoScenario)
		})
	})

	return r
}

// RequestLogger logs one line per request with status, size and latency.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				ev := log.Info()
				if status >= 500 {
					ev = log.Error()
				}
				ev.Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
