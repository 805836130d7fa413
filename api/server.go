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
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/rosters/*        Roster months and duty mutations
  /api/rates            Role rate table
  /api/ytd              Year-to-date earnings
  /api/scenarios/*      Demo rosters

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Roster routes
		r.Route("/rosters", func(r chi.Router) {
			r.Post("/", h.UploadRoster)
			r.Get("/", h.ListRosters)

			r.Route("/{year}/{month}", func(r chi.Router) {
				r.Get("/", h.GetRoster)
				r.Delete("/", h.DeleteRoster)
				r.Post("/reprice", h.RepriceRoster)

				r.Route("/duties", func(r chi.Router) {
					r.Post("/", h.AddDuty)
					r.Put("/{index}/debrief", h.EditDebrief)
					r.Delete("/{index}", h.DeleteDuty)
				})
			})
		})

		// Rates and aggregates
		r.Get("/rates", h.ListRates)
		r.Get("/ytd", h.YearToDate)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
