// Package telemetry groups the observability packages used by sweeper.
//
// # Components
//
//   - logging: slog logger construction, home directory redaction and
//     run-scoped context fields
//   - metrics: Prometheus counters and histograms fed by run reports
//   - health: health checks for the managed directories and the last run
//
// The metrics and health handlers are served by the optional local ops
// endpoint started by "sweeper run" when telemetry.metrics.enabled is set.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, nil))
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	scheduler.AddSink(collector)
//
//	mux := http.NewServeMux()
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package telemetry
