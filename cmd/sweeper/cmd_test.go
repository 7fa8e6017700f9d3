package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
)

type testDirs struct {
	root, active, staged, backup string
}

func newTestDirs(t *testing.T) testDirs {
	t.Helper()
	root := t.TempDir()
	d := testDirs{
		root:   root,
		active: filepath.Join(root, "active"),
		staged: filepath.Join(root, "staged"),
		backup: filepath.Join(root, "backup"),
	}
	for _, dir := range []string{d.active, d.backup} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func (d testDirs) writeConfig(t *testing.T, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`directories:
  active: %s
  staged: %s
  backup: %s
policy:
  active_days: 15
  staged_days: 90
  backup_days: 180
schedule:
  cron: "0 9 * * *"
telemetry:
  logging:
    level: error
%s`, d.active, d.staged, d.backup, extra)

	path := filepath.Join(d.root, "sweeper.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		logLevel = ""
	}()
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

const day = 24 * time.Hour

func TestOnceCommand_DemotesAndPurges(t *testing.T) {
	d := newTestDirs(t)
	configPath := d.writeConfig(t, "")

	writeAged(t, filepath.Join(d.active, "old.pdf"), 20*day)
	writeAged(t, filepath.Join(d.active, "nested", "deep.zip"), 30*day)
	writeAged(t, filepath.Join(d.active, "fresh.txt"), time.Hour)
	writeAged(t, filepath.Join(d.active, "setup.EXE"), 100*day)
	writeAged(t, filepath.Join(d.backup, "ancient.tar"), 200*day)
	writeAged(t, filepath.Join(d.backup, "recent.tar"), 10*day)

	out, _, err := execute(t, "once", "--config", configPath, "--dry-run=false", "--output", "json")
	if err != nil {
		t.Fatalf("once failed: %v", err)
	}

	var report retention.RunReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}

	active := report.Pass(retention.PassActiveDemotion)
	if active == nil {
		t.Fatal("missing active demotion pass")
	}
	if active.Moved != 2 || active.SkippedExempt != 1 || active.SkippedNotAged != 1 {
		t.Errorf("active pass = moved %d exempt %d not aged %d, want 2/1/1",
			active.Moved, active.SkippedExempt, active.SkippedNotAged)
	}
	if backup := report.Pass(retention.PassBackupPurge); backup.Deleted != 1 {
		t.Errorf("backup deleted = %d, want 1", backup.Deleted)
	}

	for _, name := range []string{"old.pdf", "deep.zip"} {
		if _, err := os.Stat(filepath.Join(d.staged, name)); err != nil {
			t.Errorf("%s not staged: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(d.active, "nested")); err != nil {
		t.Errorf("subdirectory should stay in active: %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.backup, "ancient.tar")); !os.IsNotExist(err) {
		t.Errorf("ancient backup should be deleted, stat err = %v", err)
	}
}

func TestOnceCommand_DryRunTouchesNothing(t *testing.T) {
	d := newTestDirs(t)
	configPath := d.writeConfig(t, "")
	writeAged(t, filepath.Join(d.active, "old.pdf"), 20*day)

	out, _, err := execute(t, "once", "--config", configPath, "--dry-run", "--output", "text")
	if err != nil {
		t.Fatalf("once failed: %v", err)
	}
	if !strings.Contains(out, "(dry run)") {
		t.Errorf("text report should mention dry run:\n%s", out)
	}
	if !strings.Contains(out, string(retention.PassActiveDemotion)) {
		t.Errorf("text report should list passes:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(d.active, "old.pdf")); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
}

func TestOnceCommand_MissingBackupIsNotFatal(t *testing.T) {
	d := newTestDirs(t)
	if err := os.RemoveAll(d.backup); err != nil {
		t.Fatal(err)
	}
	configPath := d.writeConfig(t, "")

	out, _, err := execute(t, "once", "--config", configPath, "--dry-run=false", "--output", "json")
	if err != nil {
		t.Fatalf("a skipped pass must not fail the command: %v", err)
	}

	var report retention.RunReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Pass(retention.PassBackupPurge).Aborted() {
		t.Error("backup pass should be aborted")
	}
}

func TestOnceCommand_InvalidConfig(t *testing.T) {
	d := newTestDirs(t)
	configPath := d.writeConfig(t, "")
	if err := os.WriteFile(configPath, []byte("policy:\n  active_days: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "once", "--config", configPath, "--dry-run=false", "--output", "text")
	if got := cli.ExitCode(err); got != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d (err %v)", got, cli.ExitConfig, err)
	}
}

func TestValidateCommand(t *testing.T) {
	d := newTestDirs(t)
	configPath := d.writeConfig(t, "")

	out, _, err := execute(t, "validate", "--config", configPath)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "next run") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(d.root, "bad.yaml")
	content := fmt.Sprintf("directories:\n  active: %s\n  staged: %s\n  backup: %s\npolicy:\n  backup_days: -3\n",
		d.active, filepath.Join(d.active, "trash"), d.backup)
	if err := os.WriteFile(bad, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, errOut, err := execute(t, "validate", "--config", bad)
	if got := cli.ExitCode(err); got != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d", got, cli.ExitConfig)
	}
	for _, field := range []string{"policy.backup_days", "directories.staged"} {
		if !strings.Contains(errOut, field) {
			t.Errorf("stderr should name %s:\n%s", field, errOut)
		}
	}
}

func TestHistoryCommand(t *testing.T) {
	d := newTestDirs(t)
	dbPath := filepath.Join(d.root, "history.db")
	configPath := d.writeConfig(t, fmt.Sprintf("history:\n  enabled: true\n  path: %s\n  max_records: 10\n", dbPath))

	writeAged(t, filepath.Join(d.active, "old.pdf"), 20*day)
	for i := 0; i < 2; i++ {
		if _, _, err := execute(t, "once", "--config", configPath, "--dry-run=false", "--output", "json"); err != nil {
			t.Fatalf("once #%d failed: %v", i, err)
		}
	}

	out, _, err := execute(t, "history", "--config", configPath, "--limit", "0", "--failures=false", "--since", "", "--output", "json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var records []*history.RunRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	// Newest first: the second run found nothing left to move.
	if records[0].Moved != 0 || records[1].Moved != 1 {
		t.Errorf("moved = %d, %d; want 0, 1", records[0].Moved, records[1].Moved)
	}

	out, _, err = execute(t, "history", "--config", configPath, "--limit", "1", "--failures=false", "--since", "", "--output", "csv")
	if err != nil {
		t.Fatalf("history csv failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 || !strings.HasPrefix(lines[0], "RUN_ID,") {
		t.Errorf("unexpected csv:\n%s", out)
	}
}

func TestHistoryCommand_Disabled(t *testing.T) {
	d := newTestDirs(t)
	configPath := d.writeConfig(t, "")

	_, _, err := execute(t, "history", "--config", configPath, "--limit", "20", "--failures=false", "--since", "", "--output", "text")
	if got := cli.ExitCode(err); got != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d", got, cli.ExitConfig)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"72h", now.Add(-72 * time.Hour), false},
		{"2024-03-01T00:00:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"last week", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSince(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "Sweeper "+Version) {
		t.Errorf("unexpected output: %q", out)
	}
}
