package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of DefaultConfig, remaining empty fields get
// defaults, directory paths are expanded and the result is validated.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML on top of the defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	expandDirectories(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SWEEPER_SECTION_FIELD (e.g., SWEEPER_POLICY_ACTIVE_DAYS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file on top of defaults
// 2. Apply environment variable overrides
// 3. Expand directory paths
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	expandDirectories(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format SWEEPER_SECTION_FIELD. Values that do
// not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Directory overrides
	if val := os.Getenv("SWEEPER_DIRECTORIES_ACTIVE"); val != "" {
		cfg.Directories.Active = val
	}
	if val := os.Getenv("SWEEPER_DIRECTORIES_STAGED"); val != "" {
		cfg.Directories.Staged = val
	}
	if val := os.Getenv("SWEEPER_DIRECTORIES_BACKUP"); val != "" {
		cfg.Directories.Backup = val
	}

	// Policy overrides
	if val := os.Getenv("SWEEPER_POLICY_ACTIVE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Policy.ActiveDays = i
		}
	}
	if val := os.Getenv("SWEEPER_POLICY_STAGED_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Policy.StagedDays = i
		}
	}
	if val := os.Getenv("SWEEPER_POLICY_BACKUP_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Policy.BackupDays = i
		}
	}
	if val, ok := os.LookupEnv("SWEEPER_POLICY_EXEMPT_EXTENSIONS"); ok {
		cfg.Policy.ExemptExtensions = splitList(val)
	}
	if val := os.Getenv("SWEEPER_POLICY_DRY_RUN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.DryRun = b
		}
	}

	// Schedule overrides
	if val, ok := os.LookupEnv("SWEEPER_SCHEDULE_CRON"); ok {
		cfg.Schedule.Cron = val
	}
	if val := os.Getenv("SWEEPER_SCHEDULE_RUN_ON_START"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if val := os.Getenv("SWEEPER_SCHEDULE_TIMEZONE"); val != "" {
		cfg.Schedule.Timezone = val
	}
	if val := os.Getenv("SWEEPER_SCHEDULE_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.WatchConfig = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("SWEEPER_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SWEEPER_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SWEEPER_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SWEEPER_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}

	// History overrides
	if val := os.Getenv("SWEEPER_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("SWEEPER_HISTORY_DRIVER"); val != "" {
		cfg.History.Driver = val
	}
	if val := os.Getenv("SWEEPER_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("SWEEPER_HISTORY_MAX_RECORDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.MaxRecords = i
		}
	}
	if val := os.Getenv("SWEEPER_HISTORY_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.History.BusyTimeout = d
		}
	}
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(val string) []string {
	out := []string{}
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandDirectories expands environment variables and a leading "~" in the
// managed directory paths and the history path.
func expandDirectories(cfg *Config) {
	cfg.Directories.Active = ExpandPath(cfg.Directories.Active)
	cfg.Directories.Staged = ExpandPath(cfg.Directories.Staged)
	cfg.Directories.Backup = ExpandPath(cfg.Directories.Backup)
	cfg.History.Path = ExpandPath(cfg.History.Path)
}

// ExpandPath expands ${VAR}/$VAR references and a leading "~" (the current
// user's home directory). The path is cleaned. If the home directory cannot
// be determined, "~" is left as is.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}
