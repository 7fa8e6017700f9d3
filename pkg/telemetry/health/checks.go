package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"mercator-hq/sweeper/pkg/retention"
)

// DirectoryCheck reports a managed directory as unhealthy when it cannot be
// resolved to a directory. With allowMissing, a directory that does not
// exist yet is healthy; the engine creates it on the next run.
func DirectoryCheck(path string, allowMissing bool) CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				if allowMissing {
					return nil
				}
				return fmt.Errorf("directory %q does not exist", path)
			}
			return fmt.Errorf("directory %q is not accessible: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%q is not a directory", path)
		}
		return nil
	}
}

// RunTracker remembers the most recent run report. It implements
// retention.ReportSink.
type RunTracker struct {
	mu   sync.RWMutex
	last *retention.RunReport
}

// NewRunTracker creates an empty tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{}
}

// OnReport records report as the latest run.
func (t *RunTracker) OnReport(report *retention.RunReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = report
}

// Last returns the latest report, or nil before the first run.
func (t *RunTracker) Last() *retention.RunReport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// LastRunCheck is unhealthy when the latest run aborted a pass or when no
// run finished within maxAge. A maxAge of 0 disables the staleness check.
// Before the first run the check is healthy.
func LastRunCheck(tracker *RunTracker, maxAge time.Duration, now func() time.Time) CheckFunc {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		report := tracker.Last()
		if report == nil {
			return nil
		}

		for _, pass := range report.Passes {
			if pass.Aborted() {
				return fmt.Errorf("last run %s skipped %s: %s", report.RunID, pass.Pass, pass.DirErrorKind)
			}
		}

		if maxAge > 0 {
			if age := now().Sub(report.FinishedAt); age > maxAge {
				return fmt.Errorf("last run finished %s ago", age.Round(time.Second))
			}
		}
		return nil
	}
}
