package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PILOTLOG_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 500, cfg.Import.BatchSize)
	assert.Equal(t, CacheMemory, cfg.Cache.Driver)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PILOTLOG_IMPORT_BATCH_SIZE", "25")
	t.Setenv("PILOTLOG_STORAGE_DRIVER", "postgres")
	t.Setenv("PILOTLOG_STORAGE_DSN", "postgres://u:p@localhost:5432/logbook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Import.BatchSize)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/logbook", cfg.Storage.DSN)
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PILOTLOG_IMPORT_BATCH_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch_size")
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PILOTLOG_STORAGE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage driver")
}

func TestValidateServer_RequiresSecret(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Addr: ":8080"}}
	assert.Error(t, cfg.ValidateServer())

	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.ValidateServer())
}
