package api

import (
	"errors"
	"fmt"
	"net/http"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/middleware"
	"infinite-experiment/pilotlog/internal/models"
	"infinite-experiment/pilotlog/internal/models/dtos/responses"

	"github.com/go-chi/chi/v5"
)

// ListFlights godoc
// @Summary      List stored flights
// @Tags         Flights
// @Produce      json
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(10)
// @Param        aircraft   query  string  false  "Aircraft guid"
// @Router       /api/v1/flights [get]
func (h *Handlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.listFlights(w, r, r.URL.Query().Get("aircraft"))
	}
}

// ListAircraftFlights lists the flights of the aircraft in the path. An
// unknown aircraft is a 404 rather than an empty page.
func (h *Handlers) ListAircraftFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guid := chi.URLParam(r, "guid")
		if _, err := h.deps.Store.FindAircraft(r.Context(), guid); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, constants.MsgAircraftNotFound)
				return
			}
			respondWithError(w, http.StatusInternalServerError, constants.MsgLoadAircraftFailed)
			return
		}
		h.listFlights(w, r, guid)
	}
}

func (h *Handlers) listFlights(w http.ResponseWriter, r *http.Request, aircraftGUID string) {
	page, size, ok := parsePage(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, constants.MsgInvalidPage)
		return
	}

	filter := models.FlightFilter{AircraftGUID: aircraftGUID}
	key := fmt.Sprintf("%s%s_%d_%d", constants.CachePrefixFlightList, aircraftGUID, page, size)

	result, err := cached(h.deps.Cache, key, h.deps.CacheTTL, func() (responses.Page[responses.FlightSummary], error) {
		total, err := h.deps.Store.CountFlights(r.Context(), filter)
		if err != nil {
			return responses.Page[responses.FlightSummary]{}, err
		}

		filter.Limit, filter.Offset = size, (page-1)*size
		flights, err := h.deps.Store.ListFlights(r.Context(), filter)
		if err != nil {
			return responses.Page[responses.FlightSummary]{}, err
		}

		items := make([]responses.FlightSummary, 0, len(flights))
		for _, f := range flights {
			items = append(items, responses.NewFlightSummary(f))
		}
		return responses.Page[responses.FlightSummary]{Items: items, Page: page, PageSize: size, Total: total}, nil
	})
	if err != nil {
		logging.Error("Failed to list flights", "request_id", middleware.RequestID(r.Context()), "error", err)
		respondWithError(w, http.StatusInternalServerError, constants.MsgListFlightsFailed)
		return
	}

	respondWithSuccess(w, http.StatusOK, &result)
}

// GetFlight returns one flight with its full meta bag.
func (h *Handlers) GetFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guid := chi.URLParam(r, "guid")

		flight, err := h.deps.Store.FindFlight(r.Context(), guid)
		if errors.Is(err, repositories.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
			return
		}
		if err != nil {
			logging.Error("Failed to load flight", "guid", guid, "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgLoadFlightFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, flight)
	}
}
