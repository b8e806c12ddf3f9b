package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"infinite-experiment/pilotlog/internal/config"
	"infinite-experiment/pilotlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "store.db") + "?_foreign_keys=on",
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	_, err = store.InsertBatch(ctx, models.KindAircraft, []models.Entity{entity(models.KindAircraft, "A1", `{"RefSearch":"N1"}`)}, false)
	require.NoError(t, err)

	counts, err := store.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.KindAircraft])
	assert.Equal(t, int64(0), counts[models.KindFlight])
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported storage driver")
}
