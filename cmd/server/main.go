package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"infinite-experiment/pilotlog/internal/api"
	"infinite-experiment/pilotlog/internal/auth"
	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/config"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/middleware"
	"infinite-experiment/pilotlog/internal/routes"

	"golang.org/x/sync/errgroup"
)

// @title Pilotlog API
// @version 1.0
// @description Logbook import/export bridge: listings, uploads and CSV exports.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid server config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Pilotlog starting up",
		"environment", cfg.AppEnv,
		"storage", cfg.Storage.Driver,
		"cache", cfg.Cache.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repositories.Open(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal("Failed to open store", "driver", cfg.Storage.Driver, "error", err)
	}
	defer store.Close()

	cache, err := common.NewCache(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize cache", "driver", cfg.Cache.Driver, "error", err)
	}
	defer cache.Close()

	metricsReg := metrics.Default()
	deps := api.InitDependencies(cfg, store, cache, metricsReg)
	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           routes.RegisterRoutes(deps, tokens, middleware.NewRateLimiter(cfg.RateLimit), cfg.Storage.Driver),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("Server starting", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err)
		return
	}
	logging.Info("Pilotlog stopped")
}
