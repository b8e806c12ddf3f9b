package api

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/models/dtos/responses"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		size     int
		expectOK bool
	}{
		{"", 1, 10, true},
		{"?page=3&page_size=25", 3, 25, true},
		{"?page_size=1000", 1, 100, true},
		{"?page=0", 0, 0, false},
		{"?page=abc", 0, 0, false},
		{"?page_size=-1", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			page, size, ok := parsePage(httptest.NewRequest("GET", "/"+tc.query, nil))
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.size, size)
		})
	}
}

// jsonCache mimics the redis backend, which returns decoded generic JSON.
type jsonCache struct {
	common.CacheInterface
	stored map[string]any
}

func (c *jsonCache) GetOrSet(key string, _ time.Duration, loader func() (any, error)) (interface{}, error) {
	if v, ok := c.stored[key]; ok {
		return v, nil
	}
	return loader()
}

func (c *jsonCache) Delete(key string) { delete(c.stored, key) }

func TestCached_RedecodesGenericValues(t *testing.T) {
	cache := &jsonCache{stored: map[string]any{
		"stats": map[string]any{"counts": map[string]any{"Aircraft": float64(2)}, "total": float64(2)},
	}}

	calls := 0
	stats, err := cached(cache, "stats", time.Minute, func() (responses.StatsResponse, error) {
		calls++
		return responses.StatsResponse{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Counts["Aircraft"])
}

func TestCached_UndecodableEntryFallsBackToLoader(t *testing.T) {
	cache := &jsonCache{stored: map[string]any{"stats": "not an object"}}

	stats, err := cached(cache, "stats", time.Minute, func() (responses.StatsResponse, error) {
		return responses.StatsResponse{Total: 5}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.NotContains(t, cache.stored, "stats")
}

func TestCached_PropagatesLoaderError(t *testing.T) {
	boom := errors.New("boom")
	mem := common.NewCacheService(time.Minute, time.Minute)

	_, err := cached(mem, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := cached(mem, "k", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = cached[int](nil, "k", time.Minute, func() (int, error) { return 9, nil })
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}
