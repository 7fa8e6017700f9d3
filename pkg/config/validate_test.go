package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Directories = DirectoriesConfig{
		Active: "/srv/downloads",
		Staged: "/srv/staged",
		Backup: "/srv/backups",
	}
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Policy.ActiveDays = -1
	cfg.Schedule.Cron = "not a cron"
	cfg.Telemetry.Logging.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
	if !strings.Contains(err.Error(), "with 3 errors") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing active", func(c *Config) { c.Directories.Active = "" }, "directories.active"},
		{"missing backup", func(c *Config) { c.Directories.Backup = " " }, "directories.backup"},
		{"staged equals active", func(c *Config) { c.Directories.Staged = "/srv/downloads" }, "directories.staged"},
		{"staged inside active", func(c *Config) { c.Directories.Staged = "/srv/downloads/.trash" }, "directories.staged"},
		{"active inside backup", func(c *Config) { c.Directories.Active = "/srv/backups/dl" }, "directories.backup"},
		{"negative staged days", func(c *Config) { c.Policy.StagedDays = -5 }, "policy.staged_days"},
		{"negative backup days", func(c *Config) { c.Policy.BackupDays = -1 }, "policy.backup_days"},
		{"backup days beyond duration range", func(c *Config) { c.Policy.BackupDays = MaxThresholdDays + 1 }, "policy.backup_days"},
		{"staged days keep forever", func(c *Config) { c.Policy.StagedDays = 200000 }, "policy.staged_days"},
		{"active days beyond duration range", func(c *Config) { c.Policy.ActiveDays = MaxThresholdDays + 1 }, "policy.active_days"},
		{"blank extension", func(c *Config) { c.Policy.ExemptExtensions = []string{".exe", ""} }, "policy.exempt_extensions[1]"},
		{"bad cron", func(c *Config) { c.Schedule.Cron = "61 * * * *" }, "schedule.cron"},
		{"no trigger", func(c *Config) { c.Schedule.Cron = ""; c.Schedule.RunOnStart = false }, "schedule.cron"},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Nowhere/City" }, "schedule.timezone"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"bad listen address", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.ListenAddress = "localhost"
		}, "telemetry.metrics.listen_address"},
		{"relative metrics path", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.Path = "metrics"
		}, "telemetry.metrics.path"},
		{"same metrics and health path", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.HealthPath = DefaultMetricsPath
		}, "telemetry.metrics.health_path"},
		{"unknown history driver", func(c *Config) {
			c.History.Enabled = true
			c.History.Driver = "postgres"
		}, "history.driver"},
		{"negative max records", func(c *Config) {
			c.History.Enabled = true
			c.History.MaxRecords = -1
		}, "history.max_records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, validationErr.Errors)
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipped(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Metrics.Enabled = false
	cfg.Telemetry.Metrics.ListenAddress = "garbage"
	cfg.History.Enabled = false
	cfg.History.Driver = "postgres"

	if err := Validate(cfg); err != nil {
		t.Errorf("disabled sections should not be validated, got %v", err)
	}
}

func TestValidate_ZeroThresholdsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Policy.ActiveDays = 0
	cfg.Policy.StagedDays = 0
	cfg.Policy.BackupDays = 0

	if err := Validate(cfg); err != nil {
		t.Errorf("zero thresholds should be valid, got %v", err)
	}
}

func TestValidate_LargestThresholdAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Policy.ActiveDays = MaxThresholdDays
	cfg.Policy.StagedDays = MaxThresholdDays
	cfg.Policy.BackupDays = MaxThresholdDays

	if err := Validate(cfg); err != nil {
		t.Errorf("thresholds of %d days should be valid, got %v", MaxThresholdDays, err)
	}
	if MaxThresholdDays != 106751 {
		t.Errorf("MaxThresholdDays = %d, want 106751", MaxThresholdDays)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.Directories != first.Directories || cfg.Telemetry != first.Telemetry || cfg.History != first.History {
		t.Error("ApplyDefaults is not idempotent")
	}
	if cfg.Policy.ActiveDays != 0 {
		t.Errorf("ApplyDefaults must not fill thresholds, got active_days=%d", cfg.Policy.ActiveDays)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("level = %q, want %q", cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
	}
}
