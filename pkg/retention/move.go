package retention

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// partialSuffix marks a copy in progress during a cross-device move.
const partialSuffix = ".sweeper-partial"

// moveFile moves src to dst, replacing any existing file at dst, and keeps
// modTime as the modification time of dst. A rename is tried first; when src
// and dst are on different filesystems the file is copied and src removed.
func moveFile(fsys FS, src, dst string, modTime time.Time) error {
	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	return copyAndRemove(fsys, src, dst, modTime)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// copyAndRemove copies src into a partial file next to dst, restores the
// modification time, renames it over dst and finally removes src. If src
// cannot be removed the copy is rolled back so the file never exists in
// both places.
func copyAndRemove(fsys FS, src, dst string, modTime time.Time) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+partialSuffix)
	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create copy: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync copy: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	if err = fsys.Chtimes(tmp, modTime, modTime); err != nil {
		return fmt.Errorf("restore modification time: %w", err)
	}
	if err = fsys.Rename(tmp, dst); err != nil {
		return fmt.Errorf("install copy: %w", err)
	}
	if err = fsys.Remove(src); err != nil {
		_ = fsys.Remove(dst)
		return fmt.Errorf("remove source: %w", err)
	}
	return nil
}
