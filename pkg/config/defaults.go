package config

import "time"

// Default values for configuration fields.
const (
	// Directory defaults
	DefaultActiveDir = "~/Downloads"
	DefaultStagedDir = "~/.sweeper/staged"
	DefaultBackupDir = "~/Backups"

	// Policy defaults
	DefaultActiveDays = 15
	DefaultStagedDays = 90
	DefaultBackupDays = 180
	DefaultDryRun     = false

	// Schedule defaults
	DefaultScheduleCron        = "0 9 * * *"
	DefaultScheduleRunOnStart  = true
	DefaultScheduleWatchConfig = false

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultHealthPath           = "/health"
	DefaultMetricsNamespace     = "sweeper"
	DefaultMetricsSubsystem     = "retention"

	// History defaults
	DefaultHistoryEnabled     = false
	DefaultHistoryDriver      = "sqlite"
	DefaultHistoryPath        = "data/history.db"
	DefaultHistoryMaxRecords  = 1000
	DefaultHistoryBusyTimeout = 5 * time.Second
)

// DefaultExemptExtensions returns the default set of extensions that are
// never moved out of the active directory.
func DefaultExemptExtensions() []string {
	return []string{".exe", ".msi", ".ini", ".bat"}
}

// DefaultConfig returns a Config populated with every default value.
// LoadConfig decodes the YAML file on top of it, so fields absent from the
// file keep their defaults while explicit zero values (e.g. active_days: 0,
// run_on_start: false) are honoured.
func DefaultConfig() *Config {
	return &Config{
		Directories: DirectoriesConfig{
			Active: DefaultActiveDir,
			Staged: DefaultStagedDir,
			Backup: DefaultBackupDir,
		},
		Policy: PolicyConfig{
			ActiveDays:       DefaultActiveDays,
			StagedDays:       DefaultStagedDays,
			BackupDays:       DefaultBackupDays,
			ExemptExtensions: DefaultExemptExtensions(),
			DryRun:           DefaultDryRun,
		},
		Schedule: ScheduleConfig{
			Cron:        DefaultScheduleCron,
			RunOnStart:  DefaultScheduleRunOnStart,
			WatchConfig: DefaultScheduleWatchConfig,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLoggingLevel,
				Format: DefaultLoggingFormat,
			},
			Metrics: MetricsConfig{
				Enabled:       DefaultMetricsEnabled,
				ListenAddress: DefaultMetricsListenAddress,
				Path:          DefaultMetricsPath,
				HealthPath:    DefaultHealthPath,
				Namespace:     DefaultMetricsNamespace,
				Subsystem:     DefaultMetricsSubsystem,
			},
		},
		History: HistoryConfig{
			Enabled:     DefaultHistoryEnabled,
			Driver:      DefaultHistoryDriver,
			Path:        DefaultHistoryPath,
			MaxRecords:  DefaultHistoryMaxRecords,
			BusyTimeout: DefaultHistoryBusyTimeout,
		},
	}
}

// ApplyDefaults fills string and duration fields that are still empty.
// Thresholds and booleans are left alone because their zero values are
// meaningful; they get their defaults from DefaultConfig instead.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Directory defaults
	if cfg.Directories.Active == "" {
		cfg.Directories.Active = DefaultActiveDir
	}
	if cfg.Directories.Staged == "" {
		cfg.Directories.Staged = DefaultStagedDir
	}
	if cfg.Directories.Backup == "" {
		cfg.Directories.Backup = DefaultBackupDir
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.HealthPath == "" {
		cfg.Telemetry.Metrics.HealthPath = DefaultHealthPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// History defaults
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}
}
