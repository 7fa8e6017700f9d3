package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/telemetry/health"
	"mercator-hq/sweeper/pkg/telemetry/metrics"
)

const (
	healthCheckTimeout = 2 * time.Second
	opsShutdownTimeout = 5 * time.Second

	// defaultLastRunMaxAge applies when no cron schedule is configured.
	defaultLastRunMaxAge = 48 * time.Hour
)

// opsServer serves Prometheus metrics and the health report on a local
// address.
type opsServer struct {
	server   *http.Server
	listener net.Listener
	checker  *health.Checker
	logger   *slog.Logger
}

func newOpsServer(cfg *config.Config, collector *metrics.Collector, tracker *health.RunTracker, logger *slog.Logger) (*opsServer, error) {
	mc := cfg.Telemetry.Metrics

	checker := health.New(healthCheckTimeout)
	registerDirectoryChecks(checker, cfg)
	checker.RegisterCheck("last_run", health.LastRunCheck(tracker, lastRunMaxAge(cfg.Schedule, time.Now()), nil))

	mux := http.NewServeMux()
	mux.Handle(mc.Path, collector.Handler())
	health.Register(mux, checker, mc.HealthPath, Version, GitCommit, BuildDate)

	ln, err := net.Listen("tcp", mc.ListenAddress)
	if err != nil {
		return nil, err
	}

	return &opsServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
		checker:  checker,
		logger:   logger.With("component", "ops"),
	}, nil
}

// registerDirectoryChecks (re)registers the checks for the managed
// directories. The staged directory is created on the first demotion, so it
// may be missing.
func registerDirectoryChecks(checker *health.Checker, cfg *config.Config) {
	checker.RegisterCheck("active_dir", health.DirectoryCheck(cfg.Directories.Active, false))
	checker.RegisterCheck("staged_dir", health.DirectoryCheck(cfg.Directories.Staged, true))
	checker.RegisterCheck("backup_dir", health.DirectoryCheck(cfg.Directories.Backup, false))
}

// lastRunMaxAge allows two schedule periods to pass before the last run is
// reported stale.
func lastRunMaxAge(sc config.ScheduleConfig, now time.Time) time.Duration {
	if sc.Cron == "" {
		return defaultLastRunMaxAge
	}
	schedule, err := cron.ParseStandard(sc.Cron)
	if err != nil {
		return defaultLastRunMaxAge
	}
	first := schedule.Next(now)
	return 2 * schedule.Next(first).Sub(first)
}

// Serve blocks until the server is shut down. It returns nil after Shutdown.
func (s *opsServer) Serve() error {
	s.logger.Info("ops endpoint listening", "address", s.listener.Addr().String())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr is the bound listen address.
func (s *opsServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *opsServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), opsShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("ops endpoint shutdown failed", "error", err)
	}
}
