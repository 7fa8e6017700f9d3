// Package config provides configuration management for sweeper.
//
// This package handles loading, validating and watching the YAML
// configuration file that describes the managed directories, the retention
// thresholds, the run schedule, telemetry and the run history journal.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("sweeper.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("sweeper.yaml")
//
// The file is decoded on top of DefaultConfig, so omitted fields keep their
// defaults and explicit zero values are respected (a threshold of 0 days is
// valid and stages every file older than the run).
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SWEEPER_SECTION_FIELD.
// For example:
//
//   - SWEEPER_DIRECTORIES_ACTIVE overrides directories.active
//   - SWEEPER_POLICY_ACTIVE_DAYS overrides policy.active_days
//   - SWEEPER_POLICY_EXEMPT_EXTENSIONS overrides policy.exempt_extensions (comma separated)
//   - SWEEPER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Paths
//
// Directory paths may begin with "~" and may reference environment variables.
// Both are expanded after loading. The three managed directories must be
// distinct and must not be nested inside each other.
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and hands every
// valid new configuration to a callback. Invalid edits are logged and
// ignored.
package config
