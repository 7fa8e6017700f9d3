package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
	"mercator-hq/sweeper/pkg/telemetry/health"
	"mercator-hq/sweeper/pkg/telemetry/metrics"
)

var runFlags struct {
	dryRun bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the retention daemon",
	Long: `Start the retention daemon with the specified configuration.

The daemon runs the retention passes on start (schedule.run_on_start) and
then on the cron schedule (schedule.cron, daily at 09:00 by default). The
policy and directories are reloaded on SIGHUP and, with
schedule.watch_config, whenever the configuration file changes. Changes to
the schedule, logging or ops endpoint take effect after a restart.

Examples:
  # Start with default config
  sweeper run

  # Start with custom config
  sweeper run --config /etc/sweeper/sweeper.yaml

  # Log what would happen without touching files
  sweeper run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "report what would happen without moving or deleting files")
}

// daemon holds the state that configuration reloads replace.
type daemon struct {
	mu        sync.Mutex
	cfg       *config.Config
	dryRun    bool
	logger    *slog.Logger
	scheduler *retention.Scheduler
	collector *metrics.Collector
	checker   *health.Checker
}

// reload rebuilds the engine from cfg and swaps it into the scheduler. The
// next run uses the new policy; a run in progress finishes with the old one.
func (d *daemon) reload(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	engine, err := newEngine(cfg, d.logger, d.dryRun)
	if err != nil {
		d.logger.Error("configuration reload rejected, keeping previous policy", "error", err)
		d.collector.RecordConfigReload(false)
		return
	}

	if cfg.Schedule != d.cfg.Schedule {
		d.logger.Warn("schedule changes take effect after restart",
			"current", d.cfg.Schedule.Cron,
			"configured", cfg.Schedule.Cron,
		)
	}

	d.scheduler.SetRunner(engine)
	if d.checker != nil {
		registerDirectoryChecks(d.checker, cfg)
	}
	d.cfg = cfg
	d.collector.RecordConfigReload(true)

	d.logger.Info("retention policy reloaded",
		"active_dir", cfg.Directories.Active,
		"staged_dir", cfg.Directories.Staged,
		"backup_dir", cfg.Directories.Backup,
		"active_days", cfg.Policy.ActiveDays,
		"staged_days", cfg.Policy.StagedDays,
		"backup_days", cfg.Policy.BackupDays,
	)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return configFailure("run", err)
	}

	logger, err := newLogger(cfg, nil)
	if err != nil {
		return configFailure("run", err)
	}
	slog.SetDefault(logger)

	logger.Info("starting sweeper",
		"version", Version,
		"config", cfgFile,
		"dry_run", runFlags.dryRun || cfg.Policy.DryRun,
	)

	engine, err := newEngine(cfg, logger, runFlags.dryRun)
	if err != nil {
		return configFailure("run", err)
	}

	scheduler, err := retention.NewScheduler(engine, scheduleConfig(cfg), logger)
	if err != nil {
		return configFailure("run", err)
	}

	d := &daemon{
		cfg:       cfg,
		dryRun:    runFlags.dryRun,
		logger:    logger,
		scheduler: scheduler,
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}
	scheduler.AddSink(d.collector)

	tracker := health.NewRunTracker()
	scheduler.AddSink(tracker)

	// Initialize run history (if enabled)
	if cfg.History.Enabled {
		store, err := openHistory(cfg, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer store.Close()

		recorder := history.NewRecorder(store, cfg.History.MaxRecords, logger)
		recorder.OnWrite = d.collector.RecordHistoryWrite
		scheduler.AddSink(recorder)
		logger.Info("run history enabled", "driver", cfg.History.Driver, "path", cfg.History.Path)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	errChan := make(chan error, 1)

	// Start the ops endpoint (if enabled)
	if cfg.Telemetry.Metrics.Enabled {
		ops, err := newOpsServer(cfg, d.collector, tracker, logger)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to start ops endpoint: %w", err))
		}
		d.checker = ops.checker
		defer ops.Shutdown()

		go func() {
			if err := ops.Serve(); err != nil {
				errChan <- fmt.Errorf("ops endpoint error: %w", err)
			}
		}()
	}

	reload := cli.NotifyReload()
	defer signal.Stop(reload)

	// Watch the configuration file (if enabled)
	if cfg.Schedule.WatchConfig {
		watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		watcher.OnReject = func(error) { d.collector.RecordConfigReload(false) }
		defer watcher.Stop()

		go func() {
			if err := watcher.Watch(ctx, d.reload); err != nil {
				logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer scheduler.Stop()

	if next := scheduler.NextRun(); next != nil {
		logger.Info("next retention run", "at", next)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil

		case err := <-errChan:
			return cli.NewCommandError("run", err)

		case <-reload:
			logger.Info("received SIGHUP, reloading configuration", "path", cfgFile)
			newCfg, err := loadConfig()
			if err != nil {
				logger.Error("configuration reload rejected, keeping previous configuration", "error", err)
				d.collector.RecordConfigReload(false)
				continue
			}
			d.reload(newCfg)
		}
	}
}
