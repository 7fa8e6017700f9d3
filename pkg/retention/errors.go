package retention

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a run can record.
type ErrorKind string

const (
	// KindDirectoryMissing means a managed directory does not exist and
	// could not be created. Aborts only the pass touching it.
	KindDirectoryMissing ErrorKind = "directory_missing"

	// KindDirectoryUnresolvable means the path exists but is not a
	// directory, or it cannot be listed.
	KindDirectoryUnresolvable ErrorKind = "directory_unresolvable"

	// KindFileOperation means a single move or delete failed.
	KindFileOperation ErrorKind = "file_operation_failure"

	// KindScanPartial means a subdirectory or entry could not be read
	// during a scan and was skipped.
	KindScanPartial ErrorKind = "scan_partial_failure"
)

// Sentinel errors for use with errors.Is.
var (
	ErrDirectoryMissing      = errors.New("directory missing")
	ErrDirectoryUnresolvable = errors.New("directory unresolvable")
	ErrFileOperation         = errors.New("file operation failed")
	ErrScanPartial           = errors.New("scan partially failed")
)

var kindSentinels = map[ErrorKind]error{
	KindDirectoryMissing:      ErrDirectoryMissing,
	KindDirectoryUnresolvable: ErrDirectoryUnresolvable,
	KindFileOperation:         ErrFileOperation,
	KindScanPartial:           ErrScanPartial,
}

// RetentionError is an error recorded by the engine, scoped to a pass and path.
type RetentionError struct {
	Kind  ErrorKind // Failure class
	Pass  Pass      // Pass the error occurred in (empty for scanner errors)
	Path  string    // File or directory involved
	Op    string    // Operation that failed ("stat", "readdir", "rename", "remove", ...)
	Cause error     // Underlying error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [op=%s, path=%s]: %v", e.Kind, e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s [op=%s, path=%s]", e.Kind, e.Op, e.Path)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error for the error's kind.
func (e *RetentionError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// newError creates a new RetentionError.
func newError(kind ErrorKind, op, path string, cause error) *RetentionError {
	return &RetentionError{
		Kind:  kind,
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}
