package retention

import (
	"errors"
	"io/fs"
	"log/slog"
)

// dirPerm is the mode used for directories the resolver creates.
const dirPerm fs.FileMode = 0755

// PathResolver makes sure managed directories exist before a pass uses them.
type PathResolver struct {
	fs     FS
	logger *slog.Logger
}

// NewPathResolver creates a PathResolver. A nil fsys uses OSFS and a nil
// logger uses slog.Default.
func NewPathResolver(fsys FS, logger *slog.Logger) *PathResolver {
	if fsys == nil {
		fsys = OSFS{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PathResolver{
		fs:     fsys,
		logger: logger.With("component", "retention.paths"),
	}
}

// EnsureDirectory creates path and any missing parents if it does not exist.
// It returns true when a directory is present afterwards. Failures are
// logged as warnings and reported as false; they are never fatal.
func (r *PathResolver) EnsureDirectory(path string) bool {
	return r.Ensure(path) == nil
}

// Ensure is EnsureDirectory with the failure classified as a RetentionError:
// KindDirectoryUnresolvable when path exists but is not a directory,
// KindDirectoryMissing when it is absent and cannot be created.
func (r *PathResolver) Ensure(path string) *RetentionError {
	info, err := r.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		r.logger.Debug("directory already exists", "path", path)
		return nil
	case err == nil:
		rerr := newError(KindDirectoryUnresolvable, "stat", path, errors.New("not a directory"))
		r.logger.Warn("path exists but is not a directory", "path", path)
		return rerr
	case !errors.Is(err, fs.ErrNotExist):
		rerr := newError(KindDirectoryUnresolvable, "stat", path, err)
		r.logger.Warn("cannot resolve directory", "path", path, "error", err)
		return rerr
	}

	if err := r.fs.MkdirAll(path, dirPerm); err != nil {
		r.logger.Warn("failed to create directory", "path", path, "error", err)
		return newError(KindDirectoryMissing, "mkdir", path, err)
	}

	r.logger.Info("directory created", "path", path)
	return nil
}
