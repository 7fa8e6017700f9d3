package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"mercator-hq/sweeper/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in human-readable console format.
	FormatConsole LogFormat = "console"
)

// Config contains configuration for the logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// RedactHome replaces the user's home directory in logged paths with "~"
	RedactHome bool

	// Writer is the output writer (defaults to os.Stderr)
	Writer io.Writer
}

// FromConfig converts the telemetry logging section into a logger Config.
func FromConfig(cfg config.LoggingConfig, w io.Writer) Config {
	return Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		AddSource:  cfg.AddSource,
		RedactHome: cfg.RedactHome,
		Writer:     w,
	}
}

// New creates a structured logger with the given configuration.
func New(cfg Config) (*slog.Logger, error) {
	// Parse log level
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	// Parse log format
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	// Set default writer
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var redact func([]string, slog.Attr) slog.Attr
	if cfg.RedactHome {
		redact = NewHomeRedactor().ReplaceAttr
	}

	// Create handler based on format
	var handler slog.Handler
	switch format {
	case FormatText:
		opts.ReplaceAttr = redact
		handler = slog.NewTextHandler(writer, opts)
	case FormatConsole:
		// Console format drops the timestamp; the terminal already orders lines.
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if redact != nil {
				return redact(groups, a)
			}
			return a
		}
		handler = slog.NewTextHandler(writer, opts)
	default:
		opts.ReplaceAttr = redact
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(NewContextHandler(handler)), nil
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON", "":
		return FormatJSON, nil
	case "text", "TEXT":
		return FormatText, nil
	case "console", "CONSOLE":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
