package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/models"
	"infinite-experiment/pilotlog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	flights []models.Entity
	err     error
}

func (s *stubReader) ListAircraft(ctx context.Context, filter models.AircraftFilter) ([]models.Entity, error) {
	return nil, s.err
}

func (s *stubReader) ListFlights(ctx context.Context, filter models.FlightFilter) ([]models.Entity, error) {
	return s.flights, nil
}

// brokenConn accepts the first body write and fails every later one.
type brokenConn struct {
	*httptest.ResponseRecorder
	writes int
}

func (b *brokenConn) Write(p []byte) (int, error) {
	b.writes++
	if b.writes > 1 {
		return 0, errors.New("connection reset by peer")
	}
	return b.ResponseRecorder.Write(p)
}

func exportHandlers(reader services.LogbookReader) *Handlers {
	return NewHandlers(&Dependencies{Services: &Services{Export: services.NewExportService(reader, "", nil)}})
}

func TestExportLogbook_ErrorBeforeBodyIsJSON(t *testing.T) {
	h := exportHandlers(&stubReader{err: errors.New("store offline")})

	rec := httptest.NewRecorder()
	h.ExportLogbook()(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/export", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), constants.MsgExportFailed)
}

func TestExportLogbook_WriteFailureMidStreamKeepsStatus(t *testing.T) {
	flights := make([]models.Entity, 0, 300)
	for i := 0; i < 300; i++ {
		flights = append(flights, models.Entity{
			Kind: models.KindFlight,
			GUID: fmt.Sprintf("F%d", i),
			Meta: models.Meta{"DateUTC": models.String("2023-05-01"), "Route": models.String("KSFO KLAX")},
		})
	}
	h := exportHandlers(&stubReader{flights: flights})

	conn := &brokenConn{ResponseRecorder: httptest.NewRecorder()}
	h.ExportLogbook()(conn, httptest.NewRequest(http.MethodGet, "/api/v1/admin/export", nil))

	require.Greater(t, conn.writes, 1)
	assert.Equal(t, http.StatusOK, conn.Code)
	assert.True(t, strings.HasPrefix(conn.Body.String(), constants.CSVTitle))
	assert.NotContains(t, conn.Body.String(), constants.MsgExportFailed)
	assert.NotEmpty(t, conn.Header().Get("Content-Disposition"))
}
