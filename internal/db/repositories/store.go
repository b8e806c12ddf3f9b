package repositories

import (
	"context"
	"fmt"

	"infinite-experiment/pilotlog/internal/config"
	"infinite-experiment/pilotlog/internal/db"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/models"

	"gorm.io/gorm"
)

// Store is the full storage surface shared by the CLI and the API server.
type Store interface {
	InsertBatch(ctx context.Context, kind models.Kind, batch []models.Entity, ignoreConflicts bool) (int64, error)
	FindAircraft(ctx context.Context, guid string) (*models.Entity, error)
	FindFlight(ctx context.Context, guid string) (*models.Entity, error)
	ListAircraft(ctx context.Context, filter models.AircraftFilter) ([]models.Entity, error)
	ListFlights(ctx context.Context, filter models.FlightFilter) ([]models.Entity, error)
	CountAircraft(ctx context.Context, filter models.AircraftFilter) (int64, error)
	CountFlights(ctx context.Context, filter models.FlightFilter) (int64, error)
	DeleteAircraft(ctx context.Context, guid string) error
	CountByKind(ctx context.Context) (map[models.Kind]int64, error)
	Ping(ctx context.Context) error
	Close() error
}

type sqlStore struct {
	*LogbookRepository
	*StatsRepository
	orm *gorm.DB
}

func (s *sqlStore) Close() error {
	sqlDB, err := s.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSQLStore wraps an open gorm handle. The tables must already exist.
func NewSQLStore(orm *gorm.DB, driver string) (Store, error) {
	raw, err := db.SQLX(orm, driver)
	if err != nil {
		return nil, err
	}
	return &sqlStore{
		LogbookRepository: NewLogbookRepository(orm),
		StatsRepository:   NewStatsRepository(raw),
		orm:               orm,
	}, nil
}

type mongoStore struct {
	*MongoLogbookRepository
	disconnect func(context.Context) error
}

func (s *mongoStore) Close() error {
	return s.disconnect(context.Background())
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		orm, err := db.OpenORM(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(orm); err != nil {
			return nil, err
		}
		return NewSQLStore(orm, cfg.Driver)

	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		repo, err := NewMongoLogbookRepository(ctx, client.Database(cfg.MongoDB))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logging.Info("Connected to MongoDB", "database", cfg.MongoDB)
		return &mongoStore{MongoLogbookRepository: repo, disconnect: client.Disconnect}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
