package routes

import (
	"infinite-experiment/pilotlog/internal/api"
	"infinite-experiment/pilotlog/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, tokens middleware.TokenValidator) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "api_v1"))

		// Read-only listings are public
		v1.Get("/aircraft", handlers.ListAircraft())
		v1.Get("/aircraft/{guid}", handlers.GetAircraft())
		v1.Get("/aircraft/{guid}/flights", handlers.ListAircraftFlights())
		v1.Get("/flights", handlers.ListFlights())
		v1.Get("/flights/{guid}", handlers.GetFlight())
		v1.Get("/stats", handlers.LogbookStats())

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(tokens))

			authed.With(middleware.RequirePermission("read")).Get("/admin/export", handlers.ExportLogbook())

			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.RequirePermission("write"))
				admin.Post("/admin/import", handlers.ImportLogbook())
				admin.Delete("/aircraft/{guid}", handlers.DeleteAircraft())
			})
		})
	})
}
