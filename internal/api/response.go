package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"infinite-experiment/pilotlog/internal/constants"
	"infinite-experiment/pilotlog/internal/middleware"
	"infinite-experiment/pilotlog/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	writeJSON(w, statusCode, responses.NewSuccess(string(constants.APIStatusOk), w.Header().Get(middleware.RequestIDHeader), data))
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, responses.NewError(string(constants.APIStatusError), w.Header().Get(middleware.RequestIDHeader), message))
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// parsePage reads page and page_size, defaulting to the first page of
// DefaultPageSize. page_size is capped at MaxPageSize.
func parsePage(r *http.Request) (page, size int, ok bool) {
	page, size = 1, constants.DefaultPageSize

	if qs := r.URL.Query().Get("page"); qs != "" {
		p, err := strconv.Atoi(qs)
		if err != nil || p < 1 {
			return 0, 0, false
		}
		page = p
	}
	if qs := r.URL.Query().Get("page_size"); qs != "" {
		s, err := strconv.Atoi(qs)
		if err != nil || s < 1 {
			return 0, 0, false
		}
		size = min(s, constants.MaxPageSize)
	}
	return page, size, true
}

// parseBool accepts the usual strconv spellings; anything else is false.
func parseBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
