package cli

import (
	"errors"
	"fmt"

	"mercator-hq/sweeper/pkg/config"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitError   = 1
	ExitConfig  = 2
	ExitFailure = 3
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error

	// Code is the process exit code. Zero means ExitError.
	Code int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrors flattens a configuration loading error into one ConfigError
// per invalid field. Errors that are not validation errors (unreadable file,
// malformed YAML) become a single ConfigError on field "file".
func ConfigErrors(err error) []*ConfigError {
	if err == nil {
		return nil
	}

	var validationErr config.ValidationError
	if errors.As(err, &validationErr) {
		out := make([]*ConfigError, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			out = append(out, NewConfigError(fe.Field, fe.Message))
		}
		return out
	}
	return []*ConfigError{NewConfigError("file", err.Error())}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return cmdErr.Code
	}

	var validationErr config.ValidationError
	var configErr *ConfigError
	if errors.As(err, &validationErr) || errors.As(err, &configErr) {
		return ExitConfig
	}
	return ExitError
}
