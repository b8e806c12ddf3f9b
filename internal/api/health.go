package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/models/entities"
)

const healthProbeTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the server and its storage backend are reachable.
// @Tags Misc
// @Success 200 {object} entities.HealthReport
// @Failure 503 {object} entities.HealthReport
// @Router /healthCheck [get]
func HealthCheckHandler(store Pinger, backend string, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		storage := entities.ComponentHealth{Backend: backend, Status: entities.HealthOK}
		began := time.Now()
		if err := store.Ping(ctx); err != nil {
			storage.Status = entities.HealthDown
			storage.Error = err.Error()
			logging.Warn("Storage health probe failed", "backend", backend, "error", err)
		}
		storage.LatencyMs = time.Since(began).Milliseconds()

		report := entities.HealthReport{
			Status:  storage.Status,
			Storage: storage,
			UpSince: upSince.UTC(),
			Uptime:  time.Since(upSince).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		if report.Status != entities.HealthOK {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}
