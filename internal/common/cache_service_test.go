package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_GetOrSet(t *testing.T) {
	cache := NewCacheService(time.Minute, 2*time.Minute)
	calls := 0
	loader := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := cache.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = cache.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	_, err = cache.GetOrSet("bad", time.Minute, func() (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, found := cache.Get("bad")
	assert.False(t, found)
}

func TestCacheService_Flush(t *testing.T) {
	cache := NewCacheService(time.Minute, 2*time.Minute)
	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)
	cache.Delete("a")

	_, found := cache.Get("a")
	assert.False(t, found)

	cache.Flush()
	_, found = cache.Get("b")
	assert.False(t, found)
	assert.NoError(t, cache.Close())
}
