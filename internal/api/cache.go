package api

import (
	"encoding/json"
	"fmt"
	"time"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/logging"
)

// cached loads key through the cache. The redis backend hands values back as
// generic JSON, so anything that is not already a T is re-decoded.
func cached[T any](cache common.CacheInterface, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	var zero T
	if cache == nil {
		return loader()
	}

	val, err := cache.GetOrSet(key, ttl, func() (any, error) {
		return loader()
	})
	if err != nil {
		return zero, err
	}

	if typed, ok := val.(T); ok {
		return typed, nil
	}

	data, err := json.Marshal(val)
	if err != nil {
		return zero, fmt.Errorf("failed to re-encode cached %s: %w", key, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		logging.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		cache.Delete(key)
		return loader()
	}
	return out, nil
}
