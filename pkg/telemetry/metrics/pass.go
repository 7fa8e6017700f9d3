package metrics

import (
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/retention"

	"github.com/prometheus/client_golang/prometheus"
)

// PassMetrics tracks per-pass file outcomes.
//
// Metrics:
//   - sweeper_retention_files_total: Files by pass and outcome
//   - sweeper_retention_files_scanned_total: Files scanned by pass
//   - sweeper_retention_scan_skipped_total: Entries the scanner could not read
//   - sweeper_retention_pass_aborted_total: Passes skipped because of a directory error
//   - sweeper_retention_pass_duration_seconds: Duration of each pass
type PassMetrics struct {
	filesTotal       *prometheus.CounterVec
	scannedTotal     *prometheus.CounterVec
	scanSkippedTotal *prometheus.CounterVec
	abortedTotal     *prometheus.CounterVec
	passDuration     *prometheus.HistogramVec
}

// NewPassMetrics creates and registers pass metrics with the provided registry.
func NewPassMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PassMetrics {
	pm := &PassMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of files classified, by pass and outcome",
			},
			[]string{"pass", "outcome"},
		),

		scannedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_scanned_total",
				Help:      "Total number of files scanned, by pass",
			},
			[]string{"pass"},
		),

		scanSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scan_skipped_total",
				Help:      "Total number of directory entries that could not be read during a scan",
			},
			[]string{"pass"},
		),

		abortedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pass_aborted_total",
				Help:      "Total number of passes skipped because their directory was missing or unresolvable",
			},
			[]string{"pass", "kind"},
		),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pass_duration_seconds",
				Help:      "Duration of a retention pass in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10), // 0.5ms to ~2.2min
			},
			[]string{"pass"},
		),
	}

	registry.MustRegister(
		pm.filesTotal,
		pm.scannedTotal,
		pm.scanSkippedTotal,
		pm.abortedTotal,
		pm.passDuration,
	)

	return pm
}

// RecordPass records the counts of one pass.
func (pm *PassMetrics) RecordPass(p *retention.PassReport) {
	pass := string(p.Pass)

	if p.Aborted() {
		pm.abortedTotal.WithLabelValues(pass, string(p.DirErrorKind)).Inc()
		return
	}

	outcomes := []struct {
		outcome retention.Outcome
		count   int
	}{
		{retention.OutcomeMoved, p.Moved},
		{retention.OutcomeDeleted, p.Deleted},
		{retention.OutcomeSkippedExempt, p.SkippedExempt},
		{retention.OutcomeSkippedNotAged, p.SkippedNotAged},
		{retention.OutcomeFailed, p.Failed},
	}
	for _, o := range outcomes {
		if o.count > 0 {
			pm.filesTotal.WithLabelValues(pass, string(o.outcome)).Add(float64(o.count))
		}
	}

	pm.scannedTotal.WithLabelValues(pass).Add(float64(p.Scanned))
	if p.ScanSkipped > 0 {
		pm.scanSkippedTotal.WithLabelValues(pass).Add(float64(p.ScanSkipped))
	}
	pm.passDuration.WithLabelValues(pass).Observe(p.Duration.Seconds())
}
