package retention

import (
	"time"
)

// Role identifies which tier a managed directory plays in the policy.
type Role string

const (
	// RoleActive is the directory external producers write into.
	RoleActive Role = "active"
	// RoleStaged is the private trash that demoted files wait in.
	RoleStaged Role = "staged"
	// RoleBackup holds backup artifacts purged on their own schedule.
	RoleBackup Role = "backup"
)

// Pass names one of the three policy passes of a run.
type Pass string

const (
	// PassBackupPurge deletes aged files from the backup directory.
	PassBackupPurge Pass = "backup_purge"
	// PassActiveDemotion moves aged files from active into staged.
	PassActiveDemotion Pass = "active_demotion"
	// PassStagedPurge deletes aged files from the staged directory.
	PassStagedPurge Pass = "staged_purge"
)

// passOrder is the fixed execution order of a run.
var passOrder = []Pass{PassBackupPurge, PassActiveDemotion, PassStagedPurge}

// Outcome is what happened to a single file during a pass.
type Outcome string

const (
	OutcomeMoved          Outcome = "moved"
	OutcomeDeleted        Outcome = "deleted"
	OutcomeSkippedExempt  Outcome = "skipped_exempt"
	OutcomeSkippedNotAged Outcome = "skipped_not_aged"
	OutcomeFailed         Outcome = "failed"

	// outcomeEligible is the classifier's verdict before an action runs.
	outcomeEligible Outcome = "eligible"
)

// ManagedDirectory is a filesystem path tagged with its role.
type ManagedDirectory struct {
	Path string
	Role Role
}

// FileRecord is a file observed during a scan. It is recomputed on every
// run and never persisted.
type FileRecord struct {
	// Path is the absolute (or root-joined) path to the file.
	Path string

	// Name is the base name of the file.
	Name string

	// ModTime is the last modification time reported by the filesystem.
	ModTime time.Time

	// Regular is true for regular files. Scanners only yield regular files.
	Regular bool
}

// Failure describes a single error recorded during a run.
type Failure struct {
	Pass Pass      `json:"pass"`
	Path string    `json:"path"`
	Kind ErrorKind `json:"kind"`
	Err  string    `json:"error"`
}

// PassReport aggregates the outcome counts of one pass.
type PassReport struct {
	Pass Pass   `json:"pass"`
	Dir  string `json:"dir"`

	Scanned        int `json:"scanned"`
	Moved          int `json:"moved"`
	Deleted        int `json:"deleted"`
	SkippedExempt  int `json:"skipped_exempt"`
	SkippedNotAged int `json:"skipped_not_aged"`
	Failed         int `json:"failed"`

	// ScanSkipped counts entries the scanner could not list or stat.
	ScanSkipped int `json:"scan_skipped"`

	// DirError is set when the pass was aborted because its directory was
	// missing or unresolvable. Counts are zero in that case.
	DirError *RetentionError `json:"-"`

	// DirErrorKind mirrors DirError.Kind for serialized reports.
	DirErrorKind ErrorKind `json:"dir_error,omitempty"`

	Failures []Failure `json:"failures,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}

// Aborted reports whether the pass did not run because of a directory error.
func (p *PassReport) Aborted() bool {
	return p.DirError != nil || p.DirErrorKind != ""
}

// record counts an outcome.
func (p *PassReport) record(o Outcome) {
	switch o {
	case OutcomeMoved:
		p.Moved++
	case OutcomeDeleted:
		p.Deleted++
	case OutcomeSkippedExempt:
		p.SkippedExempt++
	case OutcomeSkippedNotAged:
		p.SkippedNotAged++
	case OutcomeFailed:
		p.Failed++
	}
}

// fail records a per-file failure.
func (p *PassReport) fail(err *RetentionError) {
	p.record(OutcomeFailed)
	p.Failures = append(p.Failures, Failure{
		Pass: p.Pass,
		Path: err.Path,
		Kind: err.Kind,
		Err:  err.Error(),
	})
}

// abort marks the pass as aborted by a directory error.
func (p *PassReport) abort(err *RetentionError) {
	p.DirError = err
	p.DirErrorKind = err.Kind
	p.Failures = append(p.Failures, Failure{
		Pass: p.Pass,
		Path: err.Path,
		Kind: err.Kind,
		Err:  err.Error(),
	})
}

// RunReport is the result of one engine run.
type RunReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Now is the reference time every age in the run was computed against.
	Now time.Time `json:"now"`

	// DryRun is true when no files were actually moved or deleted.
	DryRun bool `json:"dry_run"`

	// Passes holds one report per pass, in execution order.
	Passes []*PassReport `json:"passes"`
}

// Pass returns the report for the named pass, or nil if it is absent.
func (r *RunReport) Pass(p Pass) *PassReport {
	for _, pr := range r.Passes {
		if pr.Pass == p {
			return pr
		}
	}
	return nil
}

// Totals sums the counts of all passes. Dir, Pass and Failures are left empty.
func (r *RunReport) Totals() PassReport {
	var t PassReport
	for _, p := range r.Passes {
		t.Scanned += p.Scanned
		t.Moved += p.Moved
		t.Deleted += p.Deleted
		t.SkippedExempt += p.SkippedExempt
		t.SkippedNotAged += p.SkippedNotAged
		t.Failed += p.Failed
		t.ScanSkipped += p.ScanSkipped
		t.Duration += p.Duration
	}
	return t
}

// HasFailures reports whether any pass was aborted or any file failed.
func (r *RunReport) HasFailures() bool {
	for _, p := range r.Passes {
		if p.Aborted() || p.Failed > 0 || p.ScanSkipped > 0 {
			return true
		}
	}
	return false
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
