package routes

import (
	"net/http"

	"infinite-experiment/pilotlog/internal/api"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the chi router for the pilotlog API.
func RegisterRoutes(deps *api.Dependencies, tokens middleware.TokenValidator, limiter *middleware.RateLimiter, backend string) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Logging)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(limiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.Store, backend, deps.UpSince))
	r.Handle("/metrics", promhttp.Handler())

	handlers := api.NewHandlers(deps)
	RegisterAPIRoutes(r, handlers, deps, tokens)

	logging.Info("Router initialized", "backend", backend)
	return r
}
