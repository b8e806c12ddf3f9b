package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the pilotlog CLI and API server
type Config struct {
	AppEnv    string
	Log       LogConfig
	Storage   StorageConfig
	Import    ImportConfig
	Export    ExportConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type LogConfig struct {
	Level string
}

// StorageConfig selects the backing store. Driver is one of sqlite, postgres or mongo.
type StorageConfig struct {
	Driver   string
	DSN      string
	MongoURI string
	MongoDB  string
}

type ImportConfig struct {
	BatchSize int
}

type ExportConfig struct {
	Dir string
}

type CacheConfig struct {
	Driver     string
	TTLSeconds int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Load reads .env (if present), the yaml config file (if present) and
// PILOTLOG_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("app_env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.dsn", "pilotlog.db?_foreign_keys=on")
	v.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo_db", "pilotlog")
	v.SetDefault("import.batch_size", 500)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.ttl_seconds", 30)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_minutes", 60)
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/pilotlog")
	v.AddConfigPath(".")

	if configPath := os.Getenv("PILOTLOG_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PILOTLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv: v.GetString("app_env"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("storage.driver")),
			DSN:      v.GetString("storage.dsn"),
			MongoURI: v.GetString("storage.mongo_uri"),
			MongoDB:  v.GetString("storage.mongo_db"),
		},
		Import: ImportConfig{
			BatchSize: v.GetInt("import.batch_size"),
		},
		Export: ExportConfig{
			Dir: v.GetString("export.dir"),
		},
		Cache: CacheConfig{
			Driver:     strings.ToLower(v.GetString("cache.driver")),
			TTLSeconds: v.GetInt("cache.ttl_seconds"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("auth.jwt_secret"),
			TokenTTLMinutes: v.GetInt("auth.token_ttl_minutes"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be greater than 0")
	}

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", cfg.Storage.Driver)
		}
	case DriverMongo:
		if cfg.Storage.MongoURI == "" || cfg.Storage.MongoDB == "" {
			return fmt.Errorf("storage.mongo_uri and storage.mongo_db are required for driver mongo")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be sqlite, postgres, or mongo)", cfg.Storage.Driver)
	}

	switch cfg.Cache.Driver {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("invalid cache driver: %s (must be memory or redis)", cfg.Cache.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be greater than 0")
	}

	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required to run the server")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
