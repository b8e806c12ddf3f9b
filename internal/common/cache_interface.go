package common

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/pilotlog/internal/config"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	Delete(key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Flush drops every cached entry, e.g. after an import changed the logbook.
	Flush()

	Close() error
}

// NewCache builds the cache selected by cfg.Cache.Driver.
func NewCache(ctx context.Context, cfg *config.Config) (CacheInterface, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		return NewRedisCacheService(ctx, cfg.Redis)
	case config.CacheMemory:
		return NewCacheService(ttl, 2*ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
