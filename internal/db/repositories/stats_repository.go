package repositories

import (
	"context"
	"fmt"

	"infinite-experiment/pilotlog/internal/models"

	"github.com/jmoiron/sqlx"
)

// tableNames maps each kind to its storage table (or collection).
var tableNames = map[models.Kind]string{
	models.KindAircraft:      "aircraft",
	models.KindFlight:        "flights",
	models.KindImagePic:      "image_pics",
	models.KindLimitRules:    "limit_rules",
	models.KindMyQuery:       "my_queries",
	models.KindMyQueryBuild:  "my_query_builds",
	models.KindPilot:         "pilots",
	models.KindQualification: "qualifications",
	models.KindSettingConfig: "setting_configs",
}

// TableName returns the storage table for kind.
func TableName(kind models.Kind) string {
	return tableNames[kind]
}

// StatsRepository runs raw count queries over the logbook tables.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountByKind returns the row count of every kind's table.
func (r *StatsRepository) CountByKind(ctx context.Context) (map[models.Kind]int64, error) {
	counts := make(map[models.Kind]int64, len(models.AllKinds))
	for _, kind := range models.AllKinds {
		var n int64
		// table names come from the fixed map above
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", TableName(kind))
		if err := r.db.GetContext(ctx, &n, query); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

// Ping checks the database connection.
func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
