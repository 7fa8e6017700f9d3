package config

import (
	"fmt"
	"math"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// MaxThresholdDays is the largest day threshold whose duration fits in an
// int64 number of nanoseconds.
const MaxThresholdDays = int(math.MaxInt64 / int64(24*time.Hour))

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "policy.active_days").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDirectories(&cfg.Directories)...)
	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateHistory(&cfg.History)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateDirectories checks that every directory is set and that no two
// roles share a path or nest inside each other.
func validateDirectories(cfg *DirectoriesConfig) []FieldError {
	var errs []FieldError

	dirs := []struct {
		field string
		path  string
	}{
		{"directories.active", cfg.Active},
		{"directories.staged", cfg.Staged},
		{"directories.backup", cfg.Backup},
	}

	for _, d := range dirs {
		if strings.TrimSpace(d.path) == "" {
			errs = append(errs, FieldError{
				Field:   d.field,
				Message: "directory is required",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if nested(dirs[i].path, dirs[j].path) {
				errs = append(errs, FieldError{
					Field:   dirs[j].field,
					Message: fmt.Sprintf("must not overlap %s (%q)", dirs[i].field, dirs[i].path),
				})
			}
		}
	}

	return errs
}

// nested reports whether a and b are equal or one contains the other.
func nested(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(b, strings.TrimSuffix(a, sep)+sep) ||
		strings.HasPrefix(a, strings.TrimSuffix(b, sep)+sep)
}

// validatePolicy validates retention thresholds.
func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	thresholds := []struct {
		field string
		days  int
	}{
		{"policy.active_days", cfg.ActiveDays},
		{"policy.staged_days", cfg.StagedDays},
		{"policy.backup_days", cfg.BackupDays},
	}
	for _, th := range thresholds {
		if th.days < 0 {
			errs = append(errs, FieldError{
				Field:   th.field,
				Message: fmt.Sprintf("threshold must be non-negative, got %d", th.days),
			})
		} else if th.days > MaxThresholdDays {
			errs = append(errs, FieldError{
				Field:   th.field,
				Message: fmt.Sprintf("threshold must be at most %d days, got %d", MaxThresholdDays, th.days),
			})
		}
	}

	for i, ext := range cfg.ExemptExtensions {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("policy.exempt_extensions[%d]", i),
				Message: "extension must not be empty",
			})
		}
	}

	return errs
}

// validateSchedule validates the cron expression and timezone.
func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	if cfg.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Cron); err != nil {
			errs = append(errs, FieldError{
				Field:   "schedule.cron",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Cron, err),
			})
		}
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, FieldError{
				Field:   "schedule.timezone",
				Message: fmt.Sprintf("unknown timezone %q", cfg.Timezone),
			})
		}
	}

	if cfg.Cron == "" && !cfg.RunOnStart {
		errs = append(errs, FieldError{
			Field:   "schedule.cron",
			Message: "cron is required when run_on_start is disabled",
		})
	}

	return errs
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if !cfg.Metrics.Enabled {
		return errs
	}

	if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.Metrics.ListenAddress, err),
		})
	}

	paths := []struct {
		field string
		path  string
	}{
		{"telemetry.metrics.path", cfg.Metrics.Path},
		{"telemetry.metrics.health_path", cfg.Metrics.HealthPath},
	}
	for _, p := range paths {
		if p.path == "" || p.path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   p.field,
				Message: "path must start with /",
			})
		}
	}
	if cfg.Metrics.Path != "" && cfg.Metrics.Path == cfg.Metrics.HealthPath {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.health_path",
			Message: "health path must differ from metrics path",
		})
	}

	return errs
}

// validateHistory validates the run history journal configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.Driver != "sqlite" && cfg.Driver != "sqlite3" {
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("unsupported driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "path is required when history is enabled",
		})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "history.busy_timeout",
			Message: "busy timeout must be non-negative",
		})
	}

	return errs
}
