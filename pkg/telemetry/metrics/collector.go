package metrics

import (
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/retention"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the Prometheus registry for sweeper and turns run reports
// into metrics. It implements retention.ReportSink so it can be attached to
// the scheduler directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Run-level metrics
	runMetrics *RunMetrics

	// Per-pass file outcome metrics
	passMetrics *PassMetrics

	// Daemon housekeeping metrics (config reloads, history writes)
	opsMetrics *OpsMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil a fresh registry
// is created with the Go runtime and process collectors registered.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "sweeper",
//		Subsystem: "retention",
//	}
//	collector := metrics.NewCollector(cfg, nil)
//	scheduler.AddSink(collector)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	// Initialize metric subsystems
	c.runMetrics = NewRunMetrics(cfg, registry)
	c.passMetrics = NewPassMetrics(cfg, registry)
	c.opsMetrics = NewOpsMetrics(cfg, registry)

	return c
}

// OnReport records every metric derived from a finished run.
func (c *Collector) OnReport(report *retention.RunReport) {
	if !c.config.Enabled || report == nil {
		return
	}

	c.runMetrics.RecordRun(report)
	for _, pass := range report.Passes {
		c.passMetrics.RecordPass(pass)
	}
}

// RecordConfigReload records a configuration reload attempt.
func (c *Collector) RecordConfigReload(success bool) {
	if !c.config.Enabled {
		return
	}
	c.opsMetrics.RecordConfigReload(success)
}

// RecordHistoryWrite records the result of writing a run to the history
// journal.
func (c *Collector) RecordHistoryWrite(err error) {
	if !c.config.Enabled {
		return
	}
	c.opsMetrics.RecordHistoryWrite(err == nil)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
