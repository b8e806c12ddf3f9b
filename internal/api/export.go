package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/middleware"
	"infinite-experiment/pilotlog/internal/models"
	"infinite-experiment/pilotlog/internal/services"
)

// ExportLogbook streams the stored logbook as the import-template CSV.
// Accepts the aircraft listing filters plus aircraft=<guid> for flights.
func (h *Handlers) ExportLogbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := services.ExportOptions{
			Aircraft: aircraftFilter(r),
			Flights:  models.FlightFilter{AircraftGUID: r.URL.Query().Get("aircraft")},
		}

		name := services.DefaultExportName(time.Now())
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

		out := &streamWriter{w: w}
		res, err := h.deps.Services.Export.WriteCSV(r.Context(), out, opts)
		if err != nil {
			logging.Error("Export failed",
				"request_id", middleware.RequestID(r.Context()),
				"bytes_sent", out.sent,
				"error", err,
			)
			// Once the body has started the status is committed; the client
			// gets a truncated file.
			if out.started {
				return
			}
			w.Header().Del("Content-Disposition")
			respondWithError(w, http.StatusInternalServerError, constants.MsgExportFailed)
			return
		}

		for _, warning := range res.Warnings {
			logging.Warn("Export warning", "request_id", middleware.RequestID(r.Context()), "warning", warning)
		}
	}
}

// streamWriter records whether the response body has been touched.
type streamWriter struct {
	w       io.Writer
	started bool
	sent    int64
}

func (s *streamWriter) Write(p []byte) (int, error) {
	s.started = true
	n, err := s.w.Write(p)
	s.sent += int64(n)
	return n, err
}
