/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client IP behind proxies
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the mobile/web client

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Settlement lifecycle
		r.Route("/settlement", func(r chi.Router) {
			r.Get("/", h.GetSettlement)
			r.Post("/", h.InitSettlement)
			r.Patch("/", h.UpdateSettlement)
			r.Post("/submit", h.SubmitSettlement)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.AddExpense)
				r.Post("/validate", h.ValidateExpense)
				r.Delete("/{id}", h.RemoveExpense)
			})
		})

		// Rate lookups
		r.Route("/rates", func(r chi.Router) {
			r.Get("/mileage", h.GetMileageRate)
			r.Get("/tle/{zip}", h.GetTLERate)
			r.Get("/perdiem/{zip}", h.GetPerDiemRate)
			r.Get("/dla", h.GetDLARate)
		})

		// Planning tools
		r.Get("/travel-days", h.GetTravelDays)
		r.Route("/estimate", func(r chi.Router) {
			r.Post("/", h.Estimate)
			r.Post("/advance", h.AdvanceSchedule)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
