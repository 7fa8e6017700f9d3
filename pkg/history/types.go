package history

import (
	"context"
	"time"

	"mercator-hq/sweeper/pkg/retention"
)

// Result values stored with every run.
const (
	ResultSuccess = "success"
	ResultPartial = "partial"
)

// RunRecord is the journal entry for one retention run. Counts are totals
// over all passes; Report holds the full per-pass breakdown.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`
	Result     string    `json:"result"`

	Scanned        int `json:"scanned"`
	Moved          int `json:"moved"`
	Deleted        int `json:"deleted"`
	SkippedExempt  int `json:"skipped_exempt"`
	SkippedNotAged int `json:"skipped_not_aged"`
	Failed         int `json:"failed"`
	ScanSkipped    int `json:"scan_skipped"`

	// AbortedPasses counts passes skipped because of a directory error.
	AbortedPasses int `json:"aborted_passes"`

	Report *retention.RunReport `json:"report,omitempty"`
}

// Duration is the wall time of the run.
func (r *RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunRecord summarizes report into a journal entry.
func NewRunRecord(report *retention.RunReport) *RunRecord {
	t := report.Totals()

	rec := &RunRecord{
		RunID:          report.RunID,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		DryRun:         report.DryRun,
		Result:         ResultSuccess,
		Scanned:        t.Scanned,
		Moved:          t.Moved,
		Deleted:        t.Deleted,
		SkippedExempt:  t.SkippedExempt,
		SkippedNotAged: t.SkippedNotAged,
		Failed:         t.Failed,
		ScanSkipped:    t.ScanSkipped,
		Report:         report,
	}
	for _, p := range report.Passes {
		if p.Aborted() {
			rec.AbortedPasses++
		}
	}
	if report.HasFailures() {
		rec.Result = ResultPartial
	}
	return rec
}

// Query filters journal listings. Results are newest first.
type Query struct {
	// Limit caps the number of records returned. 0 means no limit.
	Limit int

	// Since excludes runs that started before this time.
	Since time.Time

	// FailuresOnly returns only partial runs.
	FailuresOnly bool
}

// Store persists run records. The retention engine never reads from it.
type Store interface {
	// Record persists a run. Recording the same RunID twice replaces it.
	Record(ctx context.Context, rec *RunRecord) error

	// Get returns a run by ID, or ErrNotFound.
	Get(ctx context.Context, runID string) (*RunRecord, error)

	// List returns runs matching q, newest first.
	List(ctx context.Context, q Query) ([]*RunRecord, error)

	// Prune keeps the newest keep runs and deletes the rest. It returns the
	// number of deleted runs. keep <= 0 deletes nothing.
	Prune(ctx context.Context, keep int) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
