package db

import (
	"fmt"

	"infinite-experiment/pilotlog/internal/logging"
	gormModels "infinite-experiment/pilotlog/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenORM opens a gorm connection for the sqlite or postgres driver. Driver
// errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func OpenORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	logging.Info("Connected to database via GORM", "driver", driver)
	return db, nil
}

// Migrate creates or updates the logbook tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate logbook tables: %w", err)
	}
	return nil
}
