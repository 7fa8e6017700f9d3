package history

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/sweeper/pkg/retention"
	"mercator-hq/sweeper/pkg/telemetry/logging"
)

// DefaultWriteTimeout bounds a single journal write.
const DefaultWriteTimeout = 10 * time.Second

// Recorder writes every run report to a Store and prunes the journal to
// MaxRecords. It implements retention.ReportSink. Write failures are logged
// and never affect the run.
type Recorder struct {
	store      Store
	maxRecords int
	timeout    time.Duration
	logger     *slog.Logger

	// OnWrite, if set, is called with the result of every write.
	OnWrite func(err error)
}

// NewRecorder creates a recorder. maxRecords <= 0 keeps every run.
func NewRecorder(store Store, maxRecords int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:      store,
		maxRecords: maxRecords,
		timeout:    DefaultWriteTimeout,
		logger:     logger.With("component", "history.recorder"),
	}
}

// OnReport records report.
func (r *Recorder) OnReport(report *retention.RunReport) {
	if report == nil {
		return
	}

	ctx, cancel := context.WithTimeout(logging.WithRunID(context.Background(), report.RunID), r.timeout)
	defer cancel()

	err := r.store.Record(ctx, NewRunRecord(report))
	if r.OnWrite != nil {
		r.OnWrite(err)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to record run", "error", err)
		return
	}

	if r.maxRecords > 0 {
		pruned, err := r.store.Prune(ctx, r.maxRecords)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to prune history", "error", err)
			return
		}
		if pruned > 0 {
			r.logger.DebugContext(ctx, "pruned history", "deleted", pruned, "keep", r.maxRecords)
		}
	}
}
