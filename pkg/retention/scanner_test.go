package retention

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func names(files []FileRecord) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestScanner_List(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeAged(t, filepath.Join(root, "a.txt"), now, 0)
	writeAged(t, filepath.Join(root, "sub", "b.txt"), now, 0)
	writeAged(t, filepath.Join(root, "sub", "deeper", "c.txt"), now, 0)
	writeAged(t, filepath.Join(root, "z.txt"), now, 0)
	if err := os.Mkdir(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatalf("Mkdir() failed: %v", err)
	}

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{"recursive descends depth first", true, []string{"a.txt", "b.txt", "c.txt", "z.txt"}},
		{"flat ignores subdirectories", false, []string{"a.txt", "z.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewScanner(nil, quietLogger()).List(root, tt.recursive)
			if res.Err != nil {
				t.Fatalf("List() error = %v", res.Err)
			}

			got := names(res.Files)
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("file[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			for _, f := range res.Files {
				if !f.Regular {
					t.Errorf("%s not marked regular", f.Path)
				}
			}
		})
	}
}

func TestScanner_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	target := filepath.Join(t.TempDir(), "outside.txt")
	writeAged(t, target, now, 0)

	if err := os.Symlink(target, filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res := NewScanner(nil, quietLogger()).List(root, true)
	if len(res.Files) != 0 {
		t.Errorf("List() = %v, want no files", names(res.Files))
	}
}

func TestScanner_RootErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeAged(t, file, time.Now(), 0)

	tests := []struct {
		name     string
		root     string
		wantKind ErrorKind
		wantIs   error
	}{
		{"missing root", filepath.Join(dir, "nope"), KindDirectoryMissing, ErrDirectoryMissing},
		{"root is a file", file, KindDirectoryUnresolvable, ErrDirectoryUnresolvable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewScanner(nil, quietLogger()).List(tt.root, true)
			if res.Err == nil {
				t.Fatal("List() expected error")
			}
			if res.Err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", res.Err.Kind, tt.wantKind)
			}
			if !errors.Is(res.Err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", res.Err, tt.wantIs)
			}
			if len(res.Files) != 0 {
				t.Errorf("expected no files, got %v", names(res.Files))
			}
		})
	}
}

func TestScanner_UnreadableRoot(t *testing.T) {
	root := t.TempDir()
	fsys := newFaultFS()
	fsys.readDirErr[root] = fs.ErrPermission

	res := NewScanner(fsys, quietLogger()).List(root, false)
	if res.Err == nil || res.Err.Kind != KindDirectoryUnresolvable {
		t.Fatalf("List() error = %v, want %s", res.Err, KindDirectoryUnresolvable)
	}
}

func TestScanner_PartialFailureContinues(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeAged(t, filepath.Join(root, "a", "one.txt"), now, 0)
	writeAged(t, filepath.Join(root, "b", "two.txt"), now, 0)
	writeAged(t, filepath.Join(root, "c", "three.txt"), now, 0)

	fsys := newFaultFS()
	fsys.readDirErr[filepath.Join(root, "b")] = fs.ErrPermission

	res := NewScanner(fsys, quietLogger()).List(root, true)
	if res.Err != nil {
		t.Fatalf("List() error = %v", res.Err)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if len(res.SkipErrors) != 1 || res.SkipErrors[0].Kind != KindScanPartial {
		t.Errorf("SkipErrors = %v, want one %s", res.SkipErrors, KindScanPartial)
	}

	got := names(res.Files)
	if len(got) != 2 || got[0] != "one.txt" || got[1] != "three.txt" {
		t.Errorf("List() = %v, want [one.txt three.txt]", got)
	}
}
