package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/db"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type flushCall struct {
	kind   models.Kind
	guids  []string
	ignore bool
}

// mockStore records every flush and can fail all batches of a kind.
type mockStore struct {
	calls    []flushCall
	errs     map[models.Kind]error
	aircraft map[string]bool
}

func newMockStore() *mockStore {
	return &mockStore{errs: map[models.Kind]error{}, aircraft: map[string]bool{}}
}

func (m *mockStore) InsertBatch(ctx context.Context, kind models.Kind, batch []models.Entity, ignoreConflicts bool) (int64, error) {
	call := flushCall{kind: kind, ignore: ignoreConflicts}
	for _, e := range batch {
		call.guids = append(call.guids, e.GUID)
	}
	m.calls = append(m.calls, call)

	if err := m.errs[kind]; err != nil {
		return 0, err
	}
	if kind == models.KindAircraft {
		for _, e := range batch {
			m.aircraft[e.GUID] = true
		}
	}
	return int64(len(batch)), nil
}

func (m *mockStore) FindAircraft(ctx context.Context, guid string) (*models.Entity, error) {
	if m.aircraft[guid] {
		return &models.Entity{Kind: models.KindAircraft, GUID: guid}, nil
	}
	return nil, repositories.ErrNotFound
}

func mustLoad(t *testing.T, data string) []common.RawRecord {
	t.Helper()
	records, err := common.LoadRecords([]byte(data))
	require.NoError(t, err)
	return records
}

const interleaved = `[
	{"table":"Flight","guid":"F1","user_id":1,"platform":1,"_modified":1,"meta":{"AircraftCode":"A1"}},
	{"table":"Pilot","guid":"P1","user_id":1,"platform":1,"_modified":1,"meta":{}},
	{"table":"Aircraft","guid":"A1","user_id":1,"platform":1,"_modified":1,"meta":{"RefSearch":"N123AB"}},
	{"table":"Flight","guid":"F2","user_id":1,"platform":1,"_modified":1,"meta":{"AircraftCode":"A2"}},
	{"table":"Aircraft","guid":"A2","user_id":1,"platform":1,"_modified":1,"meta":{"RefSearch":"N456CD"}},
	{"table":"Qualification","guid":"Q1","user_id":1,"platform":1,"_modified":1,"meta":{}}
]`

func TestImport_AircraftFlushedBeforeOtherKinds(t *testing.T) {
	for _, batchSize := range []int{1, 2, 100} {
		store := newMockStore()
		svc := NewImportService(store, batchSize, nil)

		report := svc.Import(context.Background(), "test", mustLoad(t, interleaved))

		require.NotEmpty(t, store.calls)
		seenOther := false
		for _, c := range store.calls {
			if c.kind != models.KindAircraft {
				seenOther = true
				continue
			}
			assert.False(t, seenOther, "aircraft flushed after another kind with batch size %d", batchSize)
		}

		assert.Equal(t, 6, report.Attempted)
		assert.Equal(t, 6, report.Succeeded)
		assert.Equal(t, 0, report.Failed)
	}
}

func TestImport_BatchesFlushAtSize(t *testing.T) {
	data := `[
		{"table":"Pilot","guid":"P1"},{"table":"Pilot","guid":"P2"},{"table":"Pilot","guid":"P3"},
		{"table":"Pilot","guid":"P4"},{"table":"Pilot","guid":"P5"}
	]`
	store := newMockStore()
	svc := NewImportService(store, 2, nil)

	svc.Import(context.Background(), "test", mustLoad(t, data))

	require.Len(t, store.calls, 3)
	assert.Equal(t, []string{"P1", "P2"}, store.calls[0].guids)
	assert.Equal(t, []string{"P3", "P4"}, store.calls[1].guids)
	assert.Equal(t, []string{"P5"}, store.calls[2].guids)
	assert.True(t, store.calls[0].ignore)
}

func TestImport_AircraftDuplicatesAreNotIgnored(t *testing.T) {
	store := newMockStore()
	svc := NewImportService(store, 10, nil)

	svc.Import(context.Background(), "test", mustLoad(t, interleaved))

	for _, c := range store.calls {
		assert.Equal(t, c.kind != models.KindAircraft, c.ignore, string(c.kind))
	}
}

func TestImport_UnknownAndMissingTablesAreSkipped(t *testing.T) {
	data := `[
		{"table":"Pilot","guid":"P1"},
		{"table":"Airport","guid":"X1"},
		{"guid":"X2"},
		{"table":null,"guid":"X3"},
		{"table":"imagepic","guid":"I1"}
	]`
	store := newMockStore()
	svc := NewImportService(store, 10, nil)

	report := svc.Import(context.Background(), "test", mustLoad(t, data))

	assert.Equal(t, 5, report.Attempted)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Less(t, report.Succeeded+report.Failed, report.Attempted)
	assert.Equal(t, 1, report.ByKind[models.KindImagePic].Succeeded)
}

func TestImport_FlushFailureIsIsolated(t *testing.T) {
	data := `[
		{"table":"Pilot","guid":"P1"},{"table":"Pilot","guid":"P2"},{"table":"Pilot","guid":"P3"},
		{"table":"Qualification","guid":"Q1"}
	]`
	store := newMockStore()
	store.errs[models.KindPilot] = errors.New("disk full")
	svc := NewImportService(store, 2, nil)

	report := svc.Import(context.Background(), "test", mustLoad(t, data))

	assert.Equal(t, 3, report.Failed)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failures, 3)
	assert.Contains(t, report.Failures[0].Cause, "batch starting at record 0")
	assert.Contains(t, report.Failures[2].Cause, "batch starting at record 2")
	assert.Contains(t, report.Failures[2].Cause, "disk full")
	assert.Equal(t, "P3", report.Failures[2].GUID)
}

func TestImport_UnresolvedFlightIsReported(t *testing.T) {
	data := `[
		{"table":"Aircraft","guid":"A1","meta":{"RefSearch":"N123AB"}},
		{"table":"Flight","guid":"F1","meta":{"AircraftCode":"NOPE"}},
		{"table":"Flight","guid":"F2","meta":{}}
	]`
	store := newMockStore()
	svc := NewImportService(store, 10, nil)

	report := svc.Import(context.Background(), "test", mustLoad(t, data))

	for _, c := range store.calls {
		assert.NotEqual(t, models.KindFlight, c.kind)
	}
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "NOPE", report.Failures[0].Reference)
	assert.Equal(t, 1, report.Failures[0].Position)
	assert.Contains(t, report.Failures[0].Cause, ErrAircraftNotFound.Error())
	assert.Equal(t, 1, report.Succeeded)
}

func TestImport_InvalidRecords(t *testing.T) {
	data := `[
		{"table":"Pilot","guid":"P1","meta":"abc"},
		{"table":"Pilot","meta":{}},
		{"table":"Pilot","guid":"P3","meta":{"x":1}}
	]`
	store := newMockStore()
	svc := NewImportService(store, 10, nil)

	report := svc.Import(context.Background(), "test", mustLoad(t, data))

	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, "P1", report.Failures[0].GUID)
	assert.Contains(t, report.Failures[1].Cause, "missing guid")
}

func TestImport_NonObjectElementFailsAlone(t *testing.T) {
	data := `[
		{"table":"Aircraft","guid":"A1","meta":{"RefSearch":"N123AB"}},
		"junk",
		{"table":"Pilot","guid":"P1","meta":{}}
	]`
	store := newMockStore()
	svc := NewImportService(store, 10, nil)

	report := svc.Import(context.Background(), "test", mustLoad(t, data))

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Position)
	assert.Contains(t, report.Failures[0].Cause, "not an object")
}

func TestImport_TagsPassThroughWhateverTheirType(t *testing.T) {
	repo := repositories.NewLogbookRepository(setupTestDB(t))
	ctx := context.Background()
	data := `[
		{"table":"Aircraft","guid":"A1","user_id":"125880","platform":9,"_modified":1616317613,"meta":{"RefSearch":"N1"}},
		{"table":"Pilot","guid":"P1","user_id":125880,"platform":"web","meta":{}}
	]`

	report := NewImportService(repo, 10, nil).Import(ctx, "test", mustLoad(t, data))
	require.Equal(t, 0, report.Failed, report.Failures)
	assert.Equal(t, 2, report.Succeeded)

	a, err := repo.FindAircraft(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, models.String("125880"), a.UserID)
	assert.Equal(t, "9", a.Platform.Literal())
	assert.Equal(t, "1616317613", a.Modified.Literal())
}

func TestImportFile_LoadError(t *testing.T) {
	svc := NewImportService(newMockStore(), 10, nil)

	report, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Nil(t, report)
	assert.ErrorIs(t, err, common.ErrLoad)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	orm, err := db.OpenORM("sqlite", filepath.Join(t.TempDir(), "logbook.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(orm))
	return orm
}

func TestImport_ReimportIsIdempotentExceptAircraft(t *testing.T) {
	repo := repositories.NewLogbookRepository(setupTestDB(t))
	svc := NewImportService(repo, 2, nil)
	ctx := context.Background()

	first := svc.Import(ctx, "first", mustLoad(t, interleaved))
	assert.Equal(t, 0, first.Failed)
	assert.Equal(t, int64(6), first.Inserted)

	second := svc.Import(ctx, "second", mustLoad(t, interleaved))
	assert.Equal(t, 2, second.Failed)
	for _, f := range second.Failures {
		assert.Equal(t, models.KindAircraft, f.Kind)
	}
	assert.Equal(t, int64(0), second.Inserted)
	assert.Equal(t, int64(4), second.Duplicates)

	flights, err := repo.CountFlights(ctx, models.FlightFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), flights)

	aircraft, err := repo.CountAircraft(ctx, models.AircraftFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), aircraft)
}

func TestImport_FlightReferencingMissingAircraftPersistsNothing(t *testing.T) {
	repo := repositories.NewLogbookRepository(setupTestDB(t))
	svc := NewImportService(repo, 10, nil)
	ctx := context.Background()

	report := svc.Import(ctx, "test", mustLoad(t, `[{"table":"Flight","guid":"F1","meta":{"AircraftCode":"A9"}}]`))

	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "A9", report.Failures[0].Reference)

	n, err := repo.CountFlights(ctx, models.FlightFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestImport_FlightLinksToAircraftFromEarlierRun(t *testing.T) {
	repo := repositories.NewLogbookRepository(setupTestDB(t))
	svc := NewImportService(repo, 10, nil)
	ctx := context.Background()

	svc.Import(ctx, "aircraft", mustLoad(t, `[{"table":"Aircraft","guid":"A1","meta":{"RefSearch":"N1"}}]`))
	report := svc.Import(ctx, "flights", mustLoad(t, `[{"table":"Flight","guid":"F1","meta":{"AircraftCode":"A1"}}]`))

	assert.Equal(t, 0, report.Failed)
	flights, err := repo.ListFlights(ctx, models.FlightFilter{AircraftGUID: "A1"})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "F1", flights[0].GUID)
}
