// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram
	SeriesRowsWritten prometheus.Counter

	// Forecast metrics
	ForecastRunsTotal *prometheus.CounterVec
	ForecastDuration  prometheus.Histogram
	SKUsForecasted    prometheus.Counter
	SKUsSkipped       prometheus.Counter
	ForecastErrors    prometheus.Counter

	// Managed-service metrics
	ManagedPolls     *prometheus.CounterVec
	ManagedTeardowns *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "reorder_forecast"
	}

	return &Metrics{
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		SeriesRowsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "series_rows_written_total",
			Help:      "Total number of normalized series rows persisted",
		}),

		ForecastRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "runs_total",
			Help:      "Total number of forecast runs by provider and status",
		}, []string{"provider", "status"}),
		ForecastDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "duration_seconds",
			Help:      "Forecast run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 300, 900, 1800, 3600},
		}),
		SKUsForecasted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "skus_forecasted_total",
			Help:      "Total number of SKUs successfully forecasted",
		}),
		SKUsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "skus_skipped_total",
			Help:      "Total number of SKUs skipped for insufficient history",
		}),
		ForecastErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "errors_total",
			Help:      "Total number of per-SKU forecast errors",
		}),

		ManagedPolls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "managed",
			Name:      "polls_total",
			Help:      "Total number of status polls against the managed service by step",
		}, []string{"step"}),
		ManagedTeardowns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "managed",
			Name:      "teardowns_total",
			Help:      "Total number of managed resource teardowns by outcome",
		}, []string{"outcome"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPipelineRun records a pipeline run outcome and duration.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordSeriesRowsWritten adds to the series rows written counter.
func RecordSeriesRowsWritten(rows int) {
	DefaultMetrics.SeriesRowsWritten.Add(float64(rows))
}

// RecordForecastRun records a forecast run outcome and duration.
func RecordForecastRun(provider, status string, durationSeconds float64) {
	DefaultMetrics.ForecastRunsTotal.WithLabelValues(provider, status).Inc()
	DefaultMetrics.ForecastDuration.Observe(durationSeconds)
}

// RecordSKUForecasted increments the forecasted SKU counter.
func RecordSKUForecasted() {
	DefaultMetrics.SKUsForecasted.Inc()
}

// RecordSKUSkipped increments the skipped SKU counter.
func RecordSKUSkipped() {
	DefaultMetrics.SKUsSkipped.Inc()
}

// RecordForecastError increments the per-SKU error counter.
func RecordForecastError() {
	DefaultMetrics.ForecastErrors.Inc()
}

// RecordManagedPoll records one status poll for a lifecycle step.
func RecordManagedPoll(step string) {
	DefaultMetrics.ManagedPolls.WithLabelValues(step).Inc()
}

// RecordManagedTeardown records one teardown attempt outcome.
func RecordManagedTeardown(outcome string) {
	DefaultMetrics.ManagedTeardowns.WithLabelValues(outcome).Inc()
}
