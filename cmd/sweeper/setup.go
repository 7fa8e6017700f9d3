package main

import (
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/config"
	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
	"mercator-hq/sweeper/pkg/telemetry/logging"
)

// loadConfig loads the file named by --config with SWEEPER_* environment
// overrides and applies the --log-level flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	return cfg, nil
}

// configFailure wraps a configuration error so the process exits with
// cli.ExitConfig.
func configFailure(command string, err error) error {
	return &cli.CommandError{Command: command, Err: err, Code: cli.ExitConfig}
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return logger, nil
}

// policyConfig maps the configuration file onto the engine's policy.
func policyConfig(cfg *config.Config) retention.PolicyConfig {
	return retention.PolicyConfig{
		ActiveDir:        cfg.Directories.Active,
		StagedDir:        cfg.Directories.Staged,
		BackupDir:        cfg.Directories.Backup,
		ActiveDays:       cfg.Policy.ActiveDays,
		StagedDays:       cfg.Policy.StagedDays,
		BackupDays:       cfg.Policy.BackupDays,
		ExemptExtensions: cfg.Policy.ExemptExtensions,
	}
}

func newEngine(cfg *config.Config, logger *slog.Logger, dryRun bool) (*retention.Engine, error) {
	return retention.NewEngine(policyConfig(cfg),
		retention.WithLogger(logger),
		retention.WithDryRun(dryRun || cfg.Policy.DryRun),
	)
}

func scheduleConfig(cfg *config.Config) retention.ScheduleConfig {
	return retention.ScheduleConfig{
		Cron:       cfg.Schedule.Cron,
		RunOnStart: cfg.Schedule.RunOnStart,
		Timezone:   cfg.Schedule.Timezone,
	}
}

func openHistory(cfg *config.Config, logger *slog.Logger) (*history.SQLiteStore, error) {
	sqliteConfig := history.DefaultSQLiteConfig()
	sqliteConfig.Driver = cfg.History.Driver
	sqliteConfig.Path = cfg.History.Path
	sqliteConfig.BusyTimeout = cfg.History.BusyTimeout

	store, err := history.NewSQLiteStore(sqliteConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
