// Package metrics holds the Prometheus counters and histograms of a pipeline
// run. A batch job has no scrape endpoint, so metrics are written to a
// node_exporter textfile at the end of the run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagasapipe"

// Metrics holds the Prometheus collectors for the pipeline.
type Metrics struct {
	Registry *prometheus.Registry

	PageRuns      *prometheus.CounterVec   // labels: page, step, outcome={success,error}
	FetchFailures *prometheus.CounterVec   // labels: page
	RowsWritten   *prometheus.CounterVec   // labels: page, tier
	RowsSkipped   *prometheus.CounterVec   // labels: page
	ParseErrors   *prometheus.CounterVec   // labels: page
	StepDuration  *prometheus.HistogramVec // labels: step
	LastSuccess   *prometheus.GaugeVec     // labels: page
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_runs_total",
			Help:      "Pipeline steps run per page by outcome.",
		}, []string{"page", "step", "outcome"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Pages that could not be fetched after retrying.",
		}, []string{"page"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written per page and tier.",
		}, []string{"page", "tier"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Table rows skipped for having too few cells.",
		}, []string{"page"}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Field values emptied because they did not parse.",
		}, []string{"page"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of a pipeline step for one page.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}),
		LastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last fully successful run of a page.",
		}, []string{"page"}),
	}

	m.Registry.MustRegister(
		m.PageRuns,
		m.FetchFailures,
		m.RowsWritten,
		m.RowsSkipped,
		m.ParseErrors,
		m.StepDuration,
		m.LastSuccess,
	)
	return m
}

// WriteTextfile writes every registered metric to path in the text
// exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
