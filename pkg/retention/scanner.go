package retention

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
)

// ScanResult is the output of Scanner.List.
type ScanResult struct {
	// Files holds every regular file found, in depth-first lexical order.
	Files []FileRecord

	// Skipped counts entries that could not be listed or stat'ed.
	Skipped int

	// SkipErrors holds one KindScanPartial error per skipped entry.
	SkipErrors []*RetentionError

	// Err is set when the root itself is missing or unresolvable. Files is
	// empty in that case.
	Err *RetentionError
}

// Scanner enumerates regular files under a directory.
type Scanner struct {
	fs     FS
	logger *slog.Logger
}

// NewScanner creates a Scanner. A nil fsys uses OSFS and a nil logger uses
// slog.Default.
func NewScanner(fsys FS, logger *slog.Logger) *Scanner {
	if fsys == nil {
		fsys = OSFS{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		fs:     fsys,
		logger: logger.With("component", "retention.scanner"),
	}
}

// List returns the regular files under root. With recursive set it descends
// into every subdirectory; otherwise only the immediate children are
// considered and subdirectories are ignored. Directories, symlinks and other
// special files are never returned, and symlinks are not followed.
//
// A subdirectory that cannot be listed, or an entry that cannot be stat'ed,
// is skipped and counted; scanning continues with its siblings.
func (s *Scanner) List(root string, recursive bool) ScanResult {
	var res ScanResult

	info, err := s.fs.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Err = newError(KindDirectoryMissing, "stat", root, err)
		return res
	case err != nil:
		res.Err = newError(KindDirectoryUnresolvable, "stat", root, err)
		return res
	case !info.IsDir():
		res.Err = newError(KindDirectoryUnresolvable, "stat", root, errors.New("not a directory"))
		return res
	}

	entries, err := s.fs.ReadDir(root)
	if err != nil {
		res.Err = newError(KindDirectoryUnresolvable, "readdir", root, err)
		return res
	}

	s.walk(root, entries, recursive, &res)

	if res.Skipped > 0 {
		s.logger.Warn("scan skipped unreadable entries",
			"root", root,
			"skipped", res.Skipped,
		)
	}
	return res
}

// walk appends the regular files among entries and, when recursive, those of
// every subdirectory.
func (s *Scanner) walk(dir string, entries []fs.DirEntry, recursive bool, res *ScanResult) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.IsDir():
			if !recursive {
				continue
			}
			children, err := s.fs.ReadDir(path)
			if err != nil {
				s.skip(res, "readdir", path, err)
				continue
			}
			s.walk(path, children, recursive, res)

		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				s.skip(res, "stat", path, err)
				continue
			}
			res.Files = append(res.Files, FileRecord{
				Path:    path,
				Name:    entry.Name(),
				ModTime: info.ModTime(),
				Regular: true,
			})

		default:
			s.logger.Debug("ignoring non-regular entry", "path", path, "type", entry.Type().String())
		}
	}
}

func (s *Scanner) skip(res *ScanResult, op, path string, err error) {
	res.Skipped++
	res.SkipErrors = append(res.SkipErrors, newError(KindScanPartial, op, path, err))
	s.logger.Warn("skipping unreadable entry", "path", path, "op", op, "error", err)
}
