package retention

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// faultFS wraps OSFS and fails selected operations.
type faultFS struct {
	OSFS
	readDirErr map[string]error
	removeErr  map[string]error
	renameErr  map[string]error // keyed by source path
	mkdirErr   map[string]error
}

func newFaultFS() *faultFS {
	return &faultFS{
		readDirErr: map[string]error{},
		removeErr:  map[string]error{},
		renameErr:  map[string]error{},
		mkdirErr:   map[string]error{},
	}
}

func (f *faultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err, ok := f.readDirErr[name]; ok {
		return nil, err
	}
	return f.OSFS.ReadDir(name)
}

func (f *faultFS) Remove(name string) error {
	if err, ok := f.removeErr[name]; ok {
		return err
	}
	return f.OSFS.Remove(name)
}

func (f *faultFS) Rename(oldpath, newpath string) error {
	if err, ok := f.renameErr[oldpath]; ok {
		return err
	}
	return f.OSFS.Rename(oldpath, newpath)
}

func (f *faultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err, ok := f.mkdirErr[path]; ok {
		return err
	}
	return f.OSFS.MkdirAll(path, perm)
}

// quietLogger discards all output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeAged creates path with content and sets its modification time to
// now minus age.
func writeAged(t *testing.T, path string, now time.Time, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("content of "+filepath.Base(path)), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	mtime := now.Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be gone, stat error = %v", path, err)
	}
}

func days(n int) time.Duration {
	return time.Duration(n) * Day
}
