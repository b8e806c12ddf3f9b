package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	ErrUnknownKind      = errors.New("unknown record kind")
	ErrAircraftNotFound = errors.New("aircraft not found")
	ErrInvalidRecord    = errors.New("invalid record")
)

// LogbookStore is the storage an import writes to.
type LogbookStore interface {
	InsertBatch(ctx context.Context, kind models.Kind, batch []models.Entity, ignoreConflicts bool) (int64, error)
	FindAircraft(ctx context.Context, guid string) (*models.Entity, error)
}

type importPhase string

const (
	phaseLoading     importPhase = "loading"
	phaseClassifying importPhase = "classifying"
	phaseFlushing    importPhase = "flushing"
	phaseReporting   importPhase = "reporting"
)

// ImportService routes export records to per-kind batches and writes them to
// the store. Per-record and per-batch failures are collected in the report
// and never abort the run.
type ImportService struct {
	store     LogbookStore
	batchSize int
	metrics   *metrics.MetricsRegistry
}

func NewImportService(store LogbookStore, batchSize int, metricsReg *metrics.MetricsRegistry) *ImportService {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ImportService{store: store, batchSize: batchSize, metrics: metricsReg}
}

// ImportFile loads path and imports it. Only load errors are returned; every
// other failure is listed in the report.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*models.ImportReport, error) {
	logging.Debug("[Import] Phase", "phase", phaseLoading, "source", path)
	records, err := common.LoadRecordsFile(path)
	if err != nil {
		logging.Error("[Import] Load failed", "source", path, "error", err)
		return nil, err
	}
	return s.Import(ctx, path, records), nil
}

// Import classifies and stores already loaded records. All aircraft are
// written before any other kind so flights can resolve them.
func (s *ImportService) Import(ctx context.Context, source string, records []common.RawRecord) *models.ImportReport {
	report := models.NewImportReport(uuid.NewString(), source)
	report.Attempted = len(records)

	run := &importRun{
		store:     s.store,
		batchSize: s.batchSize,
		metrics:   s.metrics,
		report:    report,
		log:       logging.With("run_id", report.RunID),
		pending:   make(map[models.Kind][]pendingEntity),
		resolved:  make(map[string]string),
		missing:   make(map[string]bool),
	}
	run.log.Infow("[Import] Started", "source", source, "records", len(records), "batch_size", s.batchSize)

	run.phase(phaseClassifying)
	for _, raw := range records {
		if kind, ok := kindOf(raw); ok && kind == models.KindAircraft {
			run.stage(ctx, raw, kind)
		}
	}
	run.flush(ctx, models.KindAircraft)

	step := max(1, len(records)/10)
	for i, raw := range records {
		if (i+1)%step == 0 {
			run.log.Infow("[Import] Progress", "processed", i+1, "total", len(records), "percent", (i+1)*100/len(records))
		}

		if raw.Malformed {
			err := fmt.Errorf("%w: element is not an object", ErrInvalidRecord)
			run.log.Warnw("[Import] Invalid record", "position", raw.Position, "error", err)
			run.fail(raw.Position, "", "", "", err)
			continue
		}

		kind, ok := kindOf(raw)
		if !ok {
			report.Skipped++
			run.log.Debugw("[Import] Skipping record", "position", raw.Position, "table", raw.Table, "has_table", raw.HasTable)
			continue
		}
		if kind == models.KindAircraft {
			continue
		}
		run.stage(ctx, raw, kind)
	}

	run.phase(phaseFlushing)
	for _, kind := range models.AllKinds {
		run.flush(ctx, kind)
	}

	run.phase(phaseReporting)
	report.Finish()
	s.recordMetrics(report)

	run.log.Infow("[Import] Finished",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report
}

func (s *ImportService) recordMetrics(report *models.ImportReport) {
	for kind, c := range report.ByKind {
		s.metrics.RecordImport(string(kind), "succeeded", c.Succeeded)
		s.metrics.RecordImport(string(kind), "failed", c.Failed)
	}
	s.metrics.RecordImport("unknown", "skipped", report.Skipped)
	s.metrics.RecordImportRun()
}

func kindOf(raw common.RawRecord) (models.Kind, bool) {
	if !raw.HasTable {
		return "", false
	}
	return models.ParseKind(raw.Table)
}

type pendingEntity struct {
	position int
	entity   models.Entity
}

// importRun holds the state of one Import call.
type importRun struct {
	store     LogbookStore
	batchSize int
	metrics   *metrics.MetricsRegistry
	report    *models.ImportReport
	log       *zap.SugaredLogger

	pending  map[models.Kind][]pendingEntity
	resolved map[string]string
	missing  map[string]bool
}

func (r *importRun) phase(p importPhase) {
	r.log.Debugw("[Import] Phase", "phase", p)
}

func (r *importRun) fail(position int, kind models.Kind, guid, reference string, err error) {
	r.report.RecordFailure(models.FailedRecord{
		Position:  position,
		Kind:      kind,
		GUID:      guid,
		Reference: reference,
		Cause:     err.Error(),
	})
}

// stage builds the entity for raw and appends it to its kind's batch,
// flushing the batch once it is full.
func (r *importRun) stage(ctx context.Context, raw common.RawRecord, kind models.Kind) {
	entity, err := newEntity(kind, raw)
	if err != nil {
		guid := gjson.GetBytes(raw.JSON, "guid").String()
		r.log.Warnw("[Import] Invalid record", "position", raw.Position, "kind", kind, "guid", guid, "error", err)
		r.fail(raw.Position, kind, guid, "", err)
		return
	}

	if kind == models.KindFlight {
		ref := entity.Meta.GetString("AircraftCode")
		guid, err := r.resolveAircraft(ctx, ref)
		if err != nil {
			r.log.Errorw("[Import] Unresolved aircraft reference",
				"position", raw.Position,
				"guid", entity.GUID,
				"aircraft_code", ref,
				"error", err,
			)
			r.fail(raw.Position, kind, entity.GUID, ref, err)
			return
		}
		entity.AircraftGUID = guid
	}

	r.pending[kind] = append(r.pending[kind], pendingEntity{position: raw.Position, entity: entity})
	if len(r.pending[kind]) >= r.batchSize {
		r.flush(ctx, kind)
	}
}

// newEntity decodes a record into the entity of its kind. The table tag is
// not carried over.
func newEntity(kind models.Kind, raw common.RawRecord) (models.Entity, error) {
	var rec models.Record
	if err := json.Unmarshal(raw.JSON, &rec); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if strings.TrimSpace(rec.GUID) == "" {
		return models.Entity{}, fmt.Errorf("%w: missing guid", ErrInvalidRecord)
	}

	meta := rec.Meta
	if meta == nil {
		meta = models.Meta{}
	}

	switch kind {
	case models.KindAircraft, models.KindFlight, models.KindImagePic, models.KindLimitRules,
		models.KindMyQuery, models.KindMyQueryBuild, models.KindPilot, models.KindQualification,
		models.KindSettingConfig:
		return models.Entity{
			Kind:     kind,
			GUID:     rec.GUID,
			UserID:   rec.UserID,
			Platform: rec.Platform,
			Modified: rec.Modified,
			Meta:     meta,
		}, nil
	default:
		return models.Entity{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// resolveAircraft maps an AircraftCode to the guid of a stored aircraft.
// Lookups are memoised for the run since all aircraft are already flushed.
func (r *importRun) resolveAircraft(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty AircraftCode", ErrAircraftNotFound)
	}
	if guid, ok := r.resolved[code]; ok {
		return guid, nil
	}
	if r.missing[code] {
		return "", fmt.Errorf("%w: %s", ErrAircraftNotFound, code)
	}

	aircraft, err := r.store.FindAircraft(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			r.missing[code] = true
			return "", fmt.Errorf("%w: %s", ErrAircraftNotFound, code)
		}
		return "", fmt.Errorf("failed to look up aircraft %s: %w", code, err)
	}

	r.resolved[code] = aircraft.GUID
	return aircraft.GUID, nil
}

// flush writes the pending batch of kind. A failing batch marks each of its
// records failed and the run continues.
func (r *importRun) flush(ctx context.Context, kind models.Kind) {
	batch := r.pending[kind]
	if len(batch) == 0 {
		return
	}
	r.pending[kind] = nil

	start := batch[0].position
	entities := make([]models.Entity, len(batch))
	for i, p := range batch {
		entities[i] = p.entity
	}

	began := time.Now()
	inserted, err := r.store.InsertBatch(ctx, kind, entities, kind.IgnoresDuplicates())
	r.metrics.ObserveFlush(string(kind), time.Since(began))

	if err != nil {
		r.log.Errorw("[Import] Batch flush failed",
			"kind", kind,
			"start_position", start,
			"size", len(batch),
			"error", err,
		)
		cause := fmt.Errorf("batch starting at record %d failed: %w", start, err)
		for _, p := range batch {
			r.fail(p.position, kind, p.entity.GUID, "", cause)
		}
		return
	}

	r.report.RecordSuccess(kind, len(batch), inserted)
	r.log.Debugw("[Import] Batch flushed",
		"kind", kind,
		"start_position", start,
		"size", len(batch),
		"inserted", inserted,
	)
}
