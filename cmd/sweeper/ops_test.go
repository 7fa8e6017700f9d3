package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/retention"
	"mercator-hq/sweeper/pkg/telemetry/health"
	"mercator-hq/sweeper/pkg/telemetry/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(d testDirs) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Directories.Active = d.active
	cfg.Directories.Staged = d.staged
	cfg.Directories.Backup = d.backup
	cfg.Schedule.RunOnStart = false
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Telemetry.Metrics.ListenAddress = "127.0.0.1:0"
	return cfg
}

func TestLastRunMaxAge(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		cron string
		want time.Duration
	}{
		{"daily", "0 9 * * *", 48 * time.Hour},
		{"hourly", "0 * * * *", 2 * time.Hour},
		{"disabled", "", defaultLastRunMaxAge},
		{"invalid", "not a cron", defaultLastRunMaxAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lastRunMaxAge(config.ScheduleConfig{Cron: tt.cron}, now)
			if got != tt.want {
				t.Errorf("lastRunMaxAge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpsServer_ServesMetricsAndHealth(t *testing.T) {
	d := newTestDirs(t)
	cfg := testConfig(d)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	tracker := health.NewRunTracker()

	ops, err := newOpsServer(cfg, collector, tracker, quietLogger())
	if err != nil {
		t.Fatalf("newOpsServer() error = %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- ops.Serve() }()
	defer func() {
		ops.Shutdown()
		if err := <-done; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	}()

	engine, err := newEngine(cfg, quietLogger(), false)
	if err != nil {
		t.Fatal(err)
	}
	report := engine.Run()
	collector.OnReport(report)
	tracker.OnReport(report)

	base := "http://" + ops.Addr()

	resp, err := http.Get(base + cfg.Telemetry.Metrics.Path)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "sweeper_retention_runs_total") {
		t.Errorf("metrics output missing runs_total:\n%s", body)
	}

	resp, err = http.Get(base + cfg.Telemetry.Metrics.HealthPath)
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status code = %d, want 200", resp.StatusCode)
	}

	var status health.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	for _, name := range []string{"active_dir", "staged_dir", "backup_dir", "last_run"} {
		if _, ok := status.Checks[name]; !ok {
			t.Errorf("health report missing check %q", name)
		}
	}
}

func TestDaemonReload(t *testing.T) {
	d := newTestDirs(t)
	cfg := testConfig(d)

	engine, err := newEngine(cfg, quietLogger(), false)
	if err != nil {
		t.Fatal(err)
	}
	scheduler, err := retention.NewScheduler(engine, scheduleConfig(cfg), quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	dm := &daemon{
		cfg:       cfg,
		logger:    quietLogger(),
		scheduler: scheduler,
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, reg),
		checker:   health.New(time.Second),
	}

	updated := testConfig(d)
	updated.Policy.ActiveDays = 1
	dm.reload(updated)

	if dm.cfg != updated {
		t.Error("reload should keep the new configuration")
	}
	if got := len(dm.checker.Names()); got != 3 {
		t.Errorf("directory checks = %d, want 3", got)
	}

	// A policy the engine rejects keeps the previous configuration.
	broken := testConfig(d)
	broken.Directories.Staged = d.active
	dm.reload(broken)
	if dm.cfg != updated {
		t.Error("rejected reload replaced the configuration")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	results := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "sweeper_retention_config_reloads_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			results[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	if results["success"] != 1 || results["error"] != 1 {
		t.Errorf("config_reloads_total = %v, want success=1 error=1", results)
	}
}
