package api

import (
	"time"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/config"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/services"
)

// maxUploadBytes bounds an uploaded export file.
const maxUploadBytes = 64 << 20

type Services struct {
	Import *services.ImportService
	Export *services.ExportService
}

type Dependencies struct {
	Store    repositories.Store
	Cache    common.CacheInterface
	Metrics  *metrics.MetricsRegistry
	Services *Services
	CacheTTL time.Duration
	UpSince  time.Time
}

// InitDependencies wires services over an already opened store and cache.
func InitDependencies(cfg *config.Config, store repositories.Store, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *Dependencies {
	return &Dependencies{
		Store:   store,
		Cache:   cache,
		Metrics: metricsReg,
		Services: &Services{
			Import: services.NewImportService(store, cfg.Import.BatchSize, metricsReg),
			Export: services.NewExportService(store, cfg.Export.Dir, metricsReg),
		},
		CacheTTL: time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		UpSince:  time.Now(),
	}
}
