package models

import "time"

// Record is one element of the logbook export file. user_id, platform and
// _modified are foreign tags kept exactly as they arrive, whatever their JSON
// type.
type Record struct {
	Table    string `json:"table"`
	GUID     string `json:"guid"`
	UserID   Value  `json:"user_id"`
	Platform Value  `json:"platform"`
	Modified Value  `json:"_modified"`
	Meta     Meta   `json:"meta"`
}

// Entity is a record after classification, ready for storage. AircraftGUID
// is only set for flights and holds the resolved aircraft storage key.
type Entity struct {
	Kind         Kind      `json:"kind"`
	GUID         string    `json:"guid"`
	UserID       Value     `json:"user_id"`
	Platform     Value     `json:"platform"`
	Modified     Value     `json:"_modified"`
	Meta         Meta      `json:"meta"`
	AircraftGUID string    `json:"aircraft_guid,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// AircraftFilter narrows an aircraft listing.
type AircraftFilter struct {
	Make string
	// ActiveOnly keeps aircraft whose meta Active flag is set.
	ActiveOnly bool
	// HighPerformanceComplex keeps active aircraft flagged both HighPerf and Complex.
	HighPerformanceComplex bool
	Limit                  int
	Offset                 int
}

// FlightFilter narrows a flight listing.
type FlightFilter struct {
	AircraftGUID string
	Limit        int
	Offset       int
}
