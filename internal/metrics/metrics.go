package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for pilotlog. A nil registry is
// valid and records nothing.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Import / export
	ImportRecordsTotal  *prometheus.CounterVec
	ImportFlushDuration *prometheus.HistogramVec
	ImportRunsTotal     prometheus.Counter
	ExportRowsTotal     *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *MetricsRegistry
)

// Default returns the process-wide registry backed by the global Prometheus
// registerer.
func Default() *MetricsRegistry {
	defaultOnce.Do(func() {
		defaultRegistry = NewMetricsRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewMetricsRegistry registers every metric with reg.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)
	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pilotlog_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pilotlog_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pilotlog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ImportRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pilotlog_import_records_total",
				Help: "Imported records by kind and outcome (succeeded, failed, skipped)",
			},
			[]string{"kind", "outcome"},
		),
		ImportFlushDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pilotlog_import_flush_duration_seconds",
				Help:    "Time spent writing one import batch",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"kind"},
		),
		ImportRunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pilotlog_import_runs_total",
				Help: "Completed import runs",
			},
		),
		ExportRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pilotlog_export_rows_total",
				Help: "Rows written to CSV exports by section",
			},
			[]string{"section"},
		),
	}
}

func (m *MetricsRegistry) RecordImport(kind, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ImportRecordsTotal.WithLabelValues(kind, outcome).Add(float64(n))
}

func (m *MetricsRegistry) ObserveFlush(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.ImportFlushDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *MetricsRegistry) RecordImportRun() {
	if m == nil {
		return
	}
	m.ImportRunsTotal.Inc()
}

func (m *MetricsRegistry) RecordExportRows(section string, n int) {
	if m == nil {
		return
	}
	m.ExportRowsTotal.WithLabelValues(section).Add(float64(n))
}
