package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"infinite-experiment/pilotlog/internal/models"
	gormModels "infinite-experiment/pilotlog/internal/models/gorm"

	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate guid")
)

// LogbookRepository stores imported records in one table per kind.
type LogbookRepository struct {
	db    *gormlib.DB
	clock *orderClock
}

func NewLogbookRepository(db *gormlib.DB) *LogbookRepository {
	return &LogbookRepository{db: db, clock: newOrderClock(time.Microsecond)}
}

// InsertBatch writes one batch in a single transaction and returns the number
// of rows inserted. With ignoreConflicts, rows whose guid already exists are
// skipped; otherwise a collision fails the whole batch with ErrDuplicate.
func (r *LogbookRepository) InsertBatch(ctx context.Context, kind models.Kind, batch []models.Entity, ignoreConflicts bool) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	rows, err := toRows(kind, batch, r.clock.reserve(len(batch)))
	if err != nil {
		return 0, err
	}

	var inserted int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		q := tx.Omit(clause.Associations)
		if ignoreConflicts {
			q = q.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "guid"}},
				DoNothing: true,
			})
		}
		res := q.Create(rows)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		if errors.Is(err, gormlib.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w in %s batch: %w", ErrDuplicate, kind, err)
		}
		return 0, fmt.Errorf("failed to insert %s batch: %w", kind, err)
	}

	return inserted, nil
}

// FindAircraft returns the aircraft stored under guid, or ErrNotFound.
func (r *LogbookRepository) FindAircraft(ctx context.Context, guid string) (*models.Entity, error) {
	var row gormModels.Aircraft
	err := r.db.WithContext(ctx).Where("guid = ?", guid).First(&row).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e, err := toEntity(models.KindAircraft, row.LogbookRecord, "")
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindFlight returns the flight stored under guid, or ErrNotFound.
func (r *LogbookRepository) FindFlight(ctx context.Context, guid string) (*models.Entity, error) {
	var row gormModels.Flight
	err := r.db.WithContext(ctx).Where("guid = ?", guid).First(&row).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e, err := toEntity(models.KindFlight, row.LogbookRecord, row.AircraftGUID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LogbookRepository) aircraftQuery(ctx context.Context, filter models.AircraftFilter) *gormlib.DB {
	q := r.db.WithContext(ctx).Model(&gormModels.Aircraft{})
	if filter.Make != "" {
		q = q.Where(datatypes.JSONQuery("meta").Equals(filter.Make, "Make"))
	}
	if filter.ActiveOnly || filter.HighPerformanceComplex {
		q = q.Where(datatypes.JSONQuery("meta").Equals(true, "Active"))
	}
	if filter.HighPerformanceComplex {
		q = q.Where(datatypes.JSONQuery("meta").Equals(true, "HighPerf")).
			Where(datatypes.JSONQuery("meta").Equals(true, "Complex"))
	}
	return q
}

func (r *LogbookRepository) flightQuery(ctx context.Context, filter models.FlightFilter) *gormlib.DB {
	q := r.db.WithContext(ctx).Model(&gormModels.Flight{})
	if filter.AircraftGUID != "" {
		q = q.Where("aircraft_guid = ?", filter.AircraftGUID)
	}
	return q
}

// ListAircraft returns aircraft in insertion order.
func (r *LogbookRepository) ListAircraft(ctx context.Context, filter models.AircraftFilter) ([]models.Entity, error) {
	var rows []gormModels.Aircraft
	q := paginate(r.aircraftQuery(ctx, filter).Order("created_at ASC").Order("guid ASC"), filter.Limit, filter.Offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}

	out := make([]models.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := toEntity(models.KindAircraft, row.LogbookRecord, "")
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ListFlights returns flights in insertion order.
func (r *LogbookRepository) ListFlights(ctx context.Context, filter models.FlightFilter) ([]models.Entity, error) {
	var rows []gormModels.Flight
	q := paginate(r.flightQuery(ctx, filter).Order("created_at ASC").Order("guid ASC"), filter.Limit, filter.Offset)
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	out := make([]models.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := toEntity(models.KindFlight, row.LogbookRecord, row.AircraftGUID)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *LogbookRepository) CountAircraft(ctx context.Context, filter models.AircraftFilter) (int64, error) {
	var count int64
	err := r.aircraftQuery(ctx, filter).Count(&count).Error
	return count, err
}

func (r *LogbookRepository) CountFlights(ctx context.Context, filter models.FlightFilter) (int64, error) {
	var count int64
	err := r.flightQuery(ctx, filter).Count(&count).Error
	return count, err
}

// DeleteAircraft removes an aircraft together with its flights.
func (r *LogbookRepository) DeleteAircraft(ctx context.Context, guid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Where("aircraft_guid = ?", guid).Delete(&gormModels.Flight{}).Error; err != nil {
			return fmt.Errorf("failed to delete flights of aircraft %s: %w", guid, err)
		}
		res := tx.Where("guid = ?", guid).Delete(&gormModels.Aircraft{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete aircraft %s: %w", guid, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func paginate(q *gormlib.DB, limit, offset int) *gormlib.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

// toRows converts a batch into a pointer to a slice of the kind's model,
// stamping row i with createdAt[i].
func toRows(kind models.Kind, batch []models.Entity, createdAt []time.Time) (interface{}, error) {
	base := func(i int, e models.Entity) (gormModels.LogbookRecord, error) {
		meta, err := json.Marshal(e.Meta)
		if err != nil {
			return gormModels.LogbookRecord{}, fmt.Errorf("failed to encode meta of %s %s: %w", kind, e.GUID, err)
		}
		return gormModels.LogbookRecord{
			GUID:      e.GUID,
			UserID:    e.UserID.Literal(),
			Platform:  e.Platform.Literal(),
			Modified:  e.Modified.Literal(),
			Meta:      datatypes.JSON(meta),
			CreatedAt: createdAt[i],
		}, nil
	}

	switch kind {
	case models.KindAircraft:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.Aircraft {
			return gormModels.Aircraft{LogbookRecord: rec}
		})
	case models.KindFlight:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, e models.Entity) gormModels.Flight {
			return gormModels.Flight{LogbookRecord: rec, AircraftGUID: e.AircraftGUID}
		})
	case models.KindImagePic:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.ImagePic {
			return gormModels.ImagePic{LogbookRecord: rec}
		})
	case models.KindLimitRules:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.LimitRules {
			return gormModels.LimitRules{LogbookRecord: rec}
		})
	case models.KindMyQuery:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.MyQuery {
			return gormModels.MyQuery{LogbookRecord: rec}
		})
	case models.KindMyQueryBuild:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.MyQueryBuild {
			return gormModels.MyQueryBuild{LogbookRecord: rec}
		})
	case models.KindPilot:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.Pilot {
			return gormModels.Pilot{LogbookRecord: rec}
		})
	case models.KindQualification:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.Qualification {
			return gormModels.Qualification{LogbookRecord: rec}
		})
	case models.KindSettingConfig:
		return buildRows(batch, base, func(rec gormModels.LogbookRecord, _ models.Entity) gormModels.SettingConfig {
			return gormModels.SettingConfig{LogbookRecord: rec}
		})
	default:
		return nil, fmt.Errorf("no table for record kind %q", kind)
	}
}

func buildRows[T any](
	batch []models.Entity,
	base func(int, models.Entity) (gormModels.LogbookRecord, error),
	wrap func(gormModels.LogbookRecord, models.Entity) T,
) (*[]T, error) {
	rows := make([]T, 0, len(batch))
	for i, e := range batch {
		rec, err := base(i, e)
		if err != nil {
			return nil, err
		}
		rows = append(rows, wrap(rec, e))
	}
	return &rows, nil
}

func toEntity(kind models.Kind, rec gormModels.LogbookRecord, aircraftGUID string) (models.Entity, error) {
	meta := models.Meta{}
	if len(rec.Meta) > 0 {
		if err := json.Unmarshal(rec.Meta, &meta); err != nil {
			return models.Entity{}, fmt.Errorf("failed to decode meta of %s %s: %w", kind, rec.GUID, err)
		}
	}
	tags, err := parseTags(rec.UserID, rec.Platform, rec.Modified)
	if err != nil {
		return models.Entity{}, fmt.Errorf("failed to decode tags of %s %s: %w", kind, rec.GUID, err)
	}
	return models.Entity{
		Kind:         kind,
		GUID:         rec.GUID,
		UserID:       tags[0],
		Platform:     tags[1],
		Modified:     tags[2],
		Meta:         meta,
		AircraftGUID: aircraftGUID,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

// parseTags reads back stored tag literals in argument order.
func parseTags(literals ...string) ([]models.Value, error) {
	out := make([]models.Value, len(literals))
	for i, lit := range literals {
		v, err := models.ParseLiteral(lit)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
