package metrics

import (
	"mercator-hq/sweeper/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OpsMetrics tracks daemon housekeeping.
//
// Metrics:
//   - sweeper_retention_config_reloads_total: Configuration reloads by result
//   - sweeper_retention_history_writes_total: History journal writes by result
type OpsMetrics struct {
	configReloadsTotal *prometheus.CounterVec
	historyWritesTotal *prometheus.CounterVec
}

// NewOpsMetrics creates and registers housekeeping metrics.
func NewOpsMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *OpsMetrics {
	om := &OpsMetrics{
		configReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "config_reloads_total",
				Help:      "Total number of configuration reload attempts",
			},
			[]string{"result"},
		),

		historyWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_writes_total",
				Help:      "Total number of run history writes",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		om.configReloadsTotal,
		om.historyWritesTotal,
	)

	return om
}

// RecordConfigReload records a configuration reload attempt.
func (om *OpsMetrics) RecordConfigReload(success bool) {
	om.configReloadsTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordHistoryWrite records a history journal write.
func (om *OpsMetrics) RecordHistoryWrite(success bool) {
	om.historyWritesTotal.WithLabelValues(resultLabel(success)).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
