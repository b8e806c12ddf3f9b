package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// SQLX wraps the connection pool behind a gorm handle for raw queries, so both
// share one pool.
func SQLX(orm *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	driverName := driver
	switch driver {
	case "postgres":
		driverName = "pgx"
	case "sqlite":
		driverName = "sqlite3"
	}

	return sqlx.NewDb(sqlDB, driverName), nil
}
