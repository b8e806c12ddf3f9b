package models

import "time"

// FailedRecord describes one input record that did not make it to storage.
type FailedRecord struct {
	Position  int    `json:"position"`
	Kind      Kind   `json:"kind"`
	GUID      string `json:"guid,omitempty"`
	Reference string `json:"reference,omitempty"`
	Cause     string `json:"cause"`
}

type KindCount struct {
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	Inserted  int64 `json:"inserted"`
}

// ImportReport summarises one import run. Succeeded counts records accepted by
// a successful flush, including duplicates the store ignored; Inserted counts
// rows actually written.
type ImportReport struct {
	RunID      string              `json:"run_id"`
	Source     string              `json:"source"`
	Attempted  int                 `json:"attempted"`
	Succeeded  int                 `json:"succeeded"`
	Failed     int                 `json:"failed"`
	Skipped    int                 `json:"skipped"`
	Inserted   int64               `json:"inserted"`
	Duplicates int64               `json:"duplicates"`
	ByKind     map[Kind]*KindCount `json:"by_kind"`
	Failures   []FailedRecord      `json:"failures"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

func NewImportReport(runID, source string) *ImportReport {
	return &ImportReport{
		RunID:     runID,
		Source:    source,
		ByKind:    make(map[Kind]*KindCount),
		Failures:  []FailedRecord{},
		StartedAt: time.Now().UTC(),
	}
}

func (r *ImportReport) kind(k Kind) *KindCount {
	c, ok := r.ByKind[k]
	if !ok {
		c = &KindCount{}
		r.ByKind[k] = c
	}
	return c
}

// RecordSuccess accounts for a flushed batch of n records, inserted of which
// were new rows.
func (r *ImportReport) RecordSuccess(k Kind, n int, inserted int64) {
	r.Succeeded += n
	r.Inserted += inserted
	c := r.kind(k)
	c.Succeeded += n
	c.Inserted += inserted
}

func (r *ImportReport) RecordFailure(f FailedRecord) {
	r.Failed++
	r.Failures = append(r.Failures, f)
	if f.Kind != "" {
		r.kind(f.Kind).Failed++
	}
}

func (r *ImportReport) Finish() {
	r.Duplicates = int64(r.Succeeded) - r.Inserted
	if r.Duplicates < 0 {
		r.Duplicates = 0
	}
	r.FinishedAt = time.Now().UTC()
}

// ExportResult describes a rendered CSV export.
type ExportResult struct {
	Path         string   `json:"path"`
	AircraftRows int      `json:"aircraft_rows"`
	FlightRows   int      `json:"flight_rows"`
	Warnings     []string `json:"warnings,omitempty"`
}
