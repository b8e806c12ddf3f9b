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

func aircraftFilter(r *http.Request) models.AircraftFilter {
	return models.AircraftFilter{
		Make:                   r.URL.Query().Get("make"),
		ActiveOnly:             parseBool(r, "active"),
		HighPerformanceComplex: parseBool(r, "hpc"),
	}
}

// ListAircraft godoc
// @Summary      List stored aircraft
// @Tags         Aircraft
// @Produce      json
// @Param        page       query  int     false  "Page number"  default(1)
// @Param        page_size  query  int     false  "Page size"    default(10)
// @Param        make       query  string  false  "Exact make"
// @Param        active     query  bool    false  "Only active aircraft"
// @Param        hpc        query  bool    false  "Only active high performance complex aircraft"
// @Router       /api/v1/aircraft [get]
func (h *Handlers) ListAircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size, ok := parsePage(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidPage)
			return
		}

		filter := aircraftFilter(r)
		key := fmt.Sprintf("%s%s_%t_%t_%d_%d", constants.CachePrefixAircraftList,
			filter.Make, filter.ActiveOnly, filter.HighPerformanceComplex, page, size)

		result, err := cached(h.deps.Cache, key, h.deps.CacheTTL, func() (responses.Page[responses.AircraftSummary], error) {
			total, err := h.deps.Store.CountAircraft(r.Context(), filter)
			if err != nil {
				return responses.Page[responses.AircraftSummary]{}, err
			}

			filter.Limit, filter.Offset = size, (page-1)*size
			aircraft, err := h.deps.Store.ListAircraft(r.Context(), filter)
			if err != nil {
				return responses.Page[responses.AircraftSummary]{}, err
			}

			items := make([]responses.AircraftSummary, 0, len(aircraft))
			for _, a := range aircraft {
				items = append(items, responses.NewAircraftSummary(a))
			}
			return responses.Page[responses.AircraftSummary]{Items: items, Page: page, PageSize: size, Total: total}, nil
		})
		if err != nil {
			logging.Error("Failed to list aircraft", "request_id", middleware.RequestID(r.Context()), "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgListAircraftFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, &result)
	}
}

// GetAircraft returns one aircraft with its full meta bag.
func (h *Handlers) GetAircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guid := chi.URLParam(r, "guid")
		key := string(constants.CachePrefixAircraftDetail) + guid

		aircraft, err := cached(h.deps.Cache, key, h.deps.CacheTTL, func() (models.Entity, error) {
			a, err := h.deps.Store.FindAircraft(r.Context(), guid)
			if err != nil {
				return models.Entity{}, err
			}
			return *a, nil
		})
		if errors.Is(err, repositories.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, constants.MsgAircraftNotFound)
			return
		}
		if err != nil {
			logging.Error("Failed to load aircraft", "guid", guid, "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgLoadAircraftFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, &aircraft)
	}
}

// DeleteAircraft removes an aircraft and every flight that references it.
func (h *Handlers) DeleteAircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guid := chi.URLParam(r, "guid")
		ctx := r.Context()

		flights, err := h.deps.Store.CountFlights(ctx, models.FlightFilter{AircraftGUID: guid})
		if err != nil {
			logging.Error("Failed to count flights", "guid", guid, "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgDeleteAircraftFailed)
			return
		}

		if err := h.deps.Store.DeleteAircraft(ctx, guid); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, constants.MsgAircraftNotFound)
				return
			}
			logging.Error("Failed to delete aircraft", "guid", guid, "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgDeleteAircraftFailed)
			return
		}
		h.invalidateCache()

		logging.Info("Aircraft deleted", "guid", guid, "flights_removed", flights)
		respondWithSuccess(w, http.StatusOK, &responses.DeleteAircraftResponse{GUID: guid, FlightsRemoved: flights})
	}
}
