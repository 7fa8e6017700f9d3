package retention

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PolicyConfig holds everything a run needs. It is passed explicitly to
// NewEngine; the engine never looks configuration up on its own.
type PolicyConfig struct {
	// ActiveDir is scanned recursively for files to demote.
	ActiveDir string

	// StagedDir receives demoted files and is purged flat.
	StagedDir string

	// BackupDir is purged flat on its own threshold.
	BackupDir string

	// ActiveDays is the age after which an active file is demoted.
	ActiveDays int

	// StagedDays is the age after which a staged file is deleted. Age is
	// measured from the original modification time, not the demotion.
	StagedDays int

	// BackupDays is the age after which a backup file is deleted.
	BackupDays int

	// ExemptExtensions are file-name suffixes never demoted from ActiveDir.
	// Matching is case-insensitive. Staged and backup purges ignore them.
	ExemptExtensions []string
}

// Validate checks that the directories are set and disjoint and that the
// thresholds are between 0 and MaxDays.
func (c PolicyConfig) Validate() error {
	dirs := []ManagedDirectory{
		{Path: c.ActiveDir, Role: RoleActive},
		{Path: c.StagedDir, Role: RoleStaged},
		{Path: c.BackupDir, Role: RoleBackup},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.Path) == "" {
			return fmt.Errorf("%s directory is required", d.Role)
		}
	}

	thresholds := []struct {
		name string
		days int
	}{
		{"active_days", c.ActiveDays},
		{"staged_days", c.StagedDays},
		{"backup_days", c.BackupDays},
	}
	for _, th := range thresholds {
		if th.days < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", th.name, th.days)
		}
		if th.days > MaxDays {
			return fmt.Errorf("%s must be at most %d, got %d", th.name, MaxDays, th.days)
		}
	}

	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if overlaps(dirs[i].Path, dirs[j].Path) {
				return fmt.Errorf("%s directory %q and %s directory %q overlap",
					dirs[i].Role, dirs[i].Path, dirs[j].Role, dirs[j].Path)
			}
		}
	}
	return nil
}

// overlaps reports whether a and b are the same directory or one contains
// the other.
func overlaps(a, b string) bool {
	a, errA := filepath.Abs(a)
	b, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return a == b || within(a, b) || within(b, a)
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source. It is read once at the start of a run
// for every age computation, and once more when the run finishes.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithFS sets the filesystem implementation. Defaults to OSFS.
func WithFS(fsys FS) Option {
	return func(e *Engine) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithDryRun makes the engine classify and report without moving or
// deleting anything.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithRunID sets the run ID generator. Defaults to uuid.NewString.
func WithRunID(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newRunID = gen
		}
	}
}

// Engine runs the three retention passes.
type Engine struct {
	config   PolicyConfig
	exempt   ExtensionSet
	fs       FS
	scanner  *Scanner
	resolver *PathResolver
	logger   *slog.Logger
	clock    func() time.Time
	newRunID func() string
	dryRun   bool
}

// NewEngine creates an Engine for the given policy.
func NewEngine(config PolicyConfig, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retention policy: %w", err)
	}

	e := &Engine{
		config:   config,
		exempt:   NewExtensionSet(config.ExemptExtensions...),
		fs:       OSFS{},
		logger:   slog.Default(),
		clock:    time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With("component", "retention.engine")
	e.scanner = NewScanner(e.fs, e.logger)
	e.resolver = NewPathResolver(e.fs, e.logger)

	return e, nil
}

// Config returns the policy the engine was built with.
func (e *Engine) Config() PolicyConfig {
	return e.config
}

// Run executes the backup purge, the active demotion and the staged purge,
// in that order. Each pass runs regardless of how the previous ones went,
// and Run always returns a report.
func (e *Engine) Run() *RunReport {
	now := e.clock()
	report := &RunReport{
		RunID:     e.newRunID(),
		StartedAt: now,
		Now:       now,
		DryRun:    e.dryRun,
	}
	logger := e.logger.With("run_id", report.RunID)

	logger.Info("retention run started",
		"active_dir", e.config.ActiveDir,
		"staged_dir", e.config.StagedDir,
		"backup_dir", e.config.BackupDir,
		"dry_run", e.dryRun,
	)

	for _, pass := range passOrder {
		report.Passes = append(report.Passes, e.runPass(pass, now, logger.With("pass", pass)))
	}

	report.FinishedAt = e.clock()
	e.logSummary(logger, report)

	return report
}

// runPass executes a single pass and times it.
func (e *Engine) runPass(pass Pass, now time.Time, logger *slog.Logger) *PassReport {
	pr := &PassReport{Pass: pass}
	start := time.Now()

	switch pass {
	case PassBackupPurge:
		pr.Dir = e.config.BackupDir
		e.purge(pr, e.config.BackupDays, now, logger)
	case PassActiveDemotion:
		pr.Dir = e.config.ActiveDir
		e.demote(pr, now, logger)
	case PassStagedPurge:
		pr.Dir = e.config.StagedDir
		e.purge(pr, e.config.StagedDays, now, logger)
	}

	pr.Duration = time.Since(start)
	return pr
}

// purge deletes every file directly inside pr.Dir older than days.
func (e *Engine) purge(pr *PassReport, days int, now time.Time, logger *slog.Logger) {
	files, ok := e.scan(pr, false, logger)
	if !ok {
		return
	}

	for _, f := range files {
		pr.Scanned++
		outcome := Classify(f, days, nil, now)
		if outcome != outcomeEligible {
			e.skip(pr, f, outcome, now, logger)
			continue
		}

		if !e.dryRun {
			if err := e.fs.Remove(f.Path); err != nil {
				e.failFile(pr, "remove", f, err, now, logger)
				continue
			}
		}
		pr.record(OutcomeDeleted)
		logger.Info("file deleted",
			"path", f.Path,
			"outcome", OutcomeDeleted,
			"age_days", ageDays(f, now),
		)
	}
}

// demote moves every aged, non-exempt file under the active directory into
// the staged directory, flattening subdirectories.
func (e *Engine) demote(pr *PassReport, now time.Time, logger *slog.Logger) {
	if rerr := e.resolver.Ensure(e.config.ActiveDir); rerr != nil {
		e.abort(pr, rerr, logger)
		return
	}
	if rerr := e.resolver.Ensure(e.config.StagedDir); rerr != nil {
		e.abort(pr, rerr, logger)
		return
	}
	// Created here so the next run's backup purge finds it; a failure only
	// matters to that pass.
	e.resolver.EnsureDirectory(e.config.BackupDir)

	files, ok := e.scan(pr, true, logger)
	if !ok {
		return
	}

	for _, f := range files {
		pr.Scanned++
		outcome := Classify(f, e.config.ActiveDays, e.exempt, now)
		if outcome != outcomeEligible {
			e.skip(pr, f, outcome, now, logger)
			continue
		}

		target := filepath.Join(e.config.StagedDir, f.Name)
		if !e.dryRun {
			if err := moveFile(e.fs, f.Path, target, f.ModTime); err != nil {
				e.failFile(pr, "move", f, err, now, logger)
				continue
			}
		}
		pr.record(OutcomeMoved)
		logger.Info("file moved to staged",
			"path", f.Path,
			"target", target,
			"outcome", OutcomeMoved,
			"age_days", ageDays(f, now),
		)
	}
}

// scan lists pr.Dir and records scanner errors. It returns false when the
// pass must be aborted.
func (e *Engine) scan(pr *PassReport, recursive bool, logger *slog.Logger) ([]FileRecord, bool) {
	res := e.scanner.List(pr.Dir, recursive)
	if res.Err != nil {
		e.abort(pr, res.Err, logger)
		return nil, false
	}

	pr.ScanSkipped = res.Skipped
	for _, serr := range res.SkipErrors {
		serr.Pass = pr.Pass
		pr.Failures = append(pr.Failures, Failure{
			Pass: pr.Pass,
			Path: serr.Path,
			Kind: serr.Kind,
			Err:  serr.Error(),
		})
	}

	if len(res.Files) == 0 {
		logger.Info("no files found", "dir", pr.Dir)
	}
	return res.Files, true
}

func (e *Engine) abort(pr *PassReport, rerr *RetentionError, logger *slog.Logger) {
	rerr.Pass = pr.Pass
	pr.abort(rerr)
	logger.Warn("pass skipped",
		"dir", pr.Dir,
		"kind", rerr.Kind,
		"error", rerr,
	)
}

func (e *Engine) skip(pr *PassReport, f FileRecord, outcome Outcome, now time.Time, logger *slog.Logger) {
	pr.record(outcome)
	if outcome == OutcomeSkippedExempt {
		logger.Info("file ignored by extension", "path", f.Path, "outcome", outcome)
		return
	}
	logger.Debug("file retained", "path", f.Path, "outcome", outcome, "age_days", ageDays(f, now))
}

func (e *Engine) failFile(pr *PassReport, op string, f FileRecord, err error, now time.Time, logger *slog.Logger) {
	rerr := newError(KindFileOperation, op, f.Path, err)
	rerr.Pass = pr.Pass
	pr.fail(rerr)
	logger.Warn("file operation failed",
		"path", f.Path,
		"op", op,
		"outcome", OutcomeFailed,
		"age_days", ageDays(f, now),
		"error", err,
	)
}

func (e *Engine) logSummary(logger *slog.Logger, report *RunReport) {
	for _, p := range report.Passes {
		logger.Info("pass completed",
			"pass", p.Pass,
			"dir", p.Dir,
			"aborted", p.Aborted(),
			"scanned", p.Scanned,
			"moved", p.Moved,
			"deleted", p.Deleted,
			"skipped_exempt", p.SkippedExempt,
			"skipped_not_aged", p.SkippedNotAged,
			"failed", p.Failed,
			"scan_skipped", p.ScanSkipped,
		)
	}

	t := report.Totals()
	logger.Info("retention run completed",
		"duration", report.Duration(),
		"scanned", t.Scanned,
		"moved", t.Moved,
		"deleted", t.Deleted,
		"failed", t.Failed,
		"dry_run", report.DryRun,
	)
}

// ageDays is the file age in whole days, for logs.
func ageDays(f FileRecord, now time.Time) int {
	return int(Age(f, now) / Day)
}
