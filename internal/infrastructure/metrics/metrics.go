// Package metrics provides run-level prometheus metrics for the fill pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks one reconcile run. Metrics are registered on a private
// registry so a run can export them without touching the global one.
type Metrics struct {
	registry *prometheus.Registry

	PersonsProcessed   prometheus.Counter
	PersonsMatched     prometheus.Counter
	PeriodsReported    prometheus.Counter
	PeriodsTruncated   prometheus.Counter
	RowsWritten        prometheus.Counter
	StoreQueryDuration prometheus.Histogram
}

// New creates a Metrics instance with all run metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PersonsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "acceptance_filler_persons_processed_total",
			Help: "Total number of input persons processed",
		}),
		PersonsMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "acceptance_filler_persons_matched_total",
			Help: "Total number of input persons with at least one acceptance period",
		}),
		PeriodsReported: factory.NewCounter(prometheus.CounterOpts{
			Name: "acceptance_filler_periods_reported_total",
			Help: "Total number of acceptance periods written to the report",
		}),
		PeriodsTruncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "acceptance_filler_periods_truncated_total",
			Help: "Total number of acceptance periods dropped beyond the per-person cap",
		}),
		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "acceptance_filler_rows_written_total",
			Help: "Total number of report rows flushed to the output",
		}),
		StoreQueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "acceptance_filler_store_query_duration_seconds",
			Help:    "Duration of acceptance store lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStoreQuery records the duration of a store lookup.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStoreQuery(start time.Time) {
	m.StoreQueryDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
