package api

import (
	"net/http"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/logging"
	"infinite-experiment/pilotlog/internal/models/dtos/responses"
)

// LogbookStats returns the stored record count per kind.
func (h *Handlers) LogbookStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := cached(h.deps.Cache, string(constants.CachePrefixStats), h.deps.CacheTTL, func() (responses.StatsResponse, error) {
			counts, err := h.deps.Store.CountByKind(r.Context())
			if err != nil {
				return responses.StatsResponse{}, err
			}

			out := responses.StatsResponse{Counts: make(map[string]int64, len(counts))}
			for kind, n := range counts {
				out.Counts[string(kind)] = n
				out.Total += n
			}
			return out, nil
		})
		if err != nil {
			logging.Error("Failed to load stats", "error", err)
			respondWithError(w, http.StatusInternalServerError, constants.MsgStatsFailed)
			return
		}

		respondWithSuccess(w, http.StatusOK, &stats)
	}
}
