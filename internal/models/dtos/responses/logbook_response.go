package responses

import (
	"time"

	"infinite-experiment/pilotlog/internal/models"
)

// AircraftSummary is one row of GET /api/v1/aircraft. Reference comes from
// meta.Reference, or meta.RefSearch when an export has no Reference key.
type AircraftSummary struct {
	GUID      string    `json:"guid"`
	Reference string    `json:"reference"`
	Make      string    `json:"make"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAircraftSummary(e models.Entity) AircraftSummary {
	ref := e.Meta.GetString("Reference")
	if ref == "" {
		ref = e.Meta.GetString("RefSearch")
	}
	return AircraftSummary{
		GUID:      e.GUID,
		Reference: ref,
		Make:      e.Meta.GetString("Make"),
		Model:     e.Meta.GetString("Model"),
		CreatedAt: e.CreatedAt,
	}
}

// FlightSummary is one row of a flight listing.
type FlightSummary struct {
	GUID         string    `json:"guid"`
	AircraftGUID string    `json:"aircraft_guid"`
	Date         string    `json:"date"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFlightSummary(e models.Entity) FlightSummary {
	return FlightSummary{
		GUID:         e.GUID,
		AircraftGUID: e.AircraftGUID,
		Date:         e.Meta.GetString("DateUTC"),
		From:         e.Meta.GetString("DepCode"),
		To:           e.Meta.GetString("ArrCode"),
		CreatedAt:    e.CreatedAt,
	}
}

// Page wraps a paginated listing.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

type StatsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

type DeleteAircraftResponse struct {
	GUID           string `json:"guid"`
	FlightsRemoved int64  `json:"flights_removed"`
}
