// Package metrics provides Prometheus metrics for sweeper.
//
// # Overview
//
// The Collector turns every retention.RunReport into counters, gauges and
// histograms. It implements retention.ReportSink and is attached to the
// scheduler, so both startup and cron runs are recorded.
//
// # Metrics Categories
//
//   - Run Metrics: run count by result, run duration, last run timestamps
//   - Pass Metrics: files by pass and outcome, scanned and skipped entries,
//     aborted passes by error kind, pass duration
//   - Ops Metrics: configuration reloads and history journal writes
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	scheduler.AddSink(collector)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// All metrics share the configured namespace and subsystem, which default
// to "sweeper" and "retention".
package metrics
