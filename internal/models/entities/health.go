package entities

import "time"

const (
	HealthOK   = "ok"
	HealthDown = "down"
)

// ComponentHealth is the result of probing one backing service.
type ComponentHealth struct {
	Backend   string `json:"backend"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthReport is served on /healthCheck. Status is down when storage is.
type HealthReport struct {
	Status  string          `json:"status"`
	Storage ComponentHealth `json:"storage"`
	UpSince time.Time       `json:"up_since"`
	Uptime  string          `json:"uptime"`
}
