package config

import "time"

// Config is the root configuration structure for sweeper.
// It contains the managed directories, the retention thresholds, the
// schedule that triggers runs, telemetry settings and the run history.
type Config struct {
	// Directories contains the three managed directories.
	Directories DirectoriesConfig `yaml:"directories"`

	// Policy contains the age thresholds and extension exemptions.
	Policy PolicyConfig `yaml:"policy"`

	// Schedule controls when retention runs are triggered.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// History contains configuration for the run history journal.
	History HistoryConfig `yaml:"history"`
}

// DirectoriesConfig contains the paths of the managed directories.
// Paths may start with "~" and may reference environment variables
// (e.g., "${HOME}/Downloads"); both are expanded when loading.
type DirectoriesConfig struct {
	// Active is the directory scanned (recursively) for stale files.
	// Default: "~/Downloads"
	Active string `yaml:"active"`

	// Staged is the private trash that stale files are moved into.
	// It must not be inside Active.
	// Default: "~/.sweeper/staged"
	Staged string `yaml:"staged"`

	// Backup is the directory whose files are purged after BackupDays.
	// Default: "~/Backups"
	Backup string `yaml:"backup"`
}

// PolicyConfig contains the retention thresholds.
type PolicyConfig struct {
	// ActiveDays is the age in days after which an active file is moved
	// into the staged directory. 0 stages every file older than the run.
	// Default: 15
	ActiveDays int `yaml:"active_days"`

	// StagedDays is the age in days after which a staged file is deleted.
	// The age is measured from the file's original modification time.
	// Default: 90
	StagedDays int `yaml:"staged_days"`

	// BackupDays is the age in days after which a backup file is deleted.
	// Default: 180
	BackupDays int `yaml:"backup_days"`

	// ExemptExtensions are file-name suffixes never moved out of the active
	// directory. Matching is case-insensitive. An empty list exempts nothing.
	// Default: [".exe", ".msi", ".ini", ".bat"]
	ExemptExtensions []string `yaml:"exempt_extensions"`

	// DryRun classifies and reports without moving or deleting files.
	// Default: false
	DryRun bool `yaml:"dry_run"`
}

// ScheduleConfig controls when retention runs happen.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	// An empty expression disables periodic runs.
	// Default: "0 9 * * *" (daily at 9 AM)
	Cron string `yaml:"cron"`

	// RunOnStart triggers a run as soon as the daemon starts.
	// Default: true
	RunOnStart bool `yaml:"run_on_start"`

	// Timezone is the IANA location the cron expression is evaluated in.
	// Default: "" (local time)
	Timezone string `yaml:"timezone"`

	// WatchConfig reloads the configuration file when it changes. The next
	// run uses the new policy.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains the Prometheus endpoint configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactHome replaces the user's home directory in logged paths with "~".
	// Default: false
	RedactHome bool `yaml:"redact_home"`
}

// MetricsConfig contains configuration for the local ops endpoint serving
// Prometheus metrics and health status.
type MetricsConfig struct {
	// Enabled starts the ops HTTP endpoint.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the ops endpoint listens on.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for Prometheus metrics.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// HealthPath is the HTTP path for the health report.
	// Default: "/health"
	HealthPath string `yaml:"health_path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "sweeper"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "retention"
	Subsystem string `yaml:"subsystem"`
}

// HistoryConfig contains configuration for the run history journal. The
// journal is write-only from the engine's point of view: it is never
// consulted when deciding what to move or delete.
type HistoryConfig struct {
	// Enabled records a summary of every run.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxRecords caps the number of runs kept; older runs are pruned.
	// 0 means unlimited.
	// Default: 1000
	MaxRecords int `yaml:"max_records"`

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}
