package metrics

import (
	"strconv"

	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/retention"

	"github.com/prometheus/client_golang/prometheus"
)

// Run results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultPartial = "partial"
)

// RunMetrics tracks metrics for whole retention runs.
//
// Metrics:
//   - sweeper_retention_runs_total: Runs by result and dry_run
//   - sweeper_retention_run_duration_seconds: Wall time of a run
//   - sweeper_retention_last_run_timestamp_seconds: Unix time the last run finished
//   - sweeper_retention_last_success_timestamp_seconds: Unix time of the last run without failures
type RunMetrics struct {
	runsTotal            *prometheus.CounterVec
	runDuration          prometheus.Histogram
	lastRunTimestamp     prometheus.Gauge
	lastSuccessTimestamp prometheus.Gauge
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of retention runs",
			},
			[]string{"result", "dry_run"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of retention runs in seconds",
				// Runs walk local directories: milliseconds to a few minutes
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4.4min
			},
		),

		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the last finished retention run",
			},
		),

		lastSuccessTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix timestamp of the last retention run without failures",
			},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.runDuration,
		rm.lastRunTimestamp,
		rm.lastSuccessTimestamp,
	)

	return rm
}

// RecordRun records a finished run.
func (rm *RunMetrics) RecordRun(report *retention.RunReport) {
	result := ResultSuccess
	if report.HasFailures() {
		result = ResultPartial
	}

	rm.runsTotal.WithLabelValues(result, strconv.FormatBool(report.DryRun)).Inc()
	rm.runDuration.Observe(report.Duration().Seconds())
	rm.lastRunTimestamp.Set(float64(report.FinishedAt.Unix()))
	if result == ResultSuccess {
		rm.lastSuccessTimestamp.Set(float64(report.FinishedAt.Unix()))
	}
}
