package cli

import (
	"strconv"
	"time"

	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
)

// ReportTable renders one row per pass of a run report.
type ReportTable struct {
	Report *retention.RunReport
}

// Header implements Table.
func (t ReportTable) Header() []string {
	return []string{"PASS", "DIR", "SCANNED", "MOVED", "DELETED", "EXEMPT", "NOT_AGED", "FAILED", "STATUS"}
}

// Rows implements Table.
func (t ReportTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Report.Passes))
	for _, p := range t.Report.Passes {
		status := "ok"
		if p.Aborted() {
			status = "skipped: " + string(p.DirErrorKind)
		} else if p.ScanSkipped > 0 {
			status = "partial scan (" + strconv.Itoa(p.ScanSkipped) + " skipped)"
		}
		rows = append(rows, []string{
			string(p.Pass),
			p.Dir,
			strconv.Itoa(p.Scanned),
			strconv.Itoa(p.Moved),
			strconv.Itoa(p.Deleted),
			strconv.Itoa(p.SkippedExempt),
			strconv.Itoa(p.SkippedNotAged),
			strconv.Itoa(p.Failed),
			status,
		})
	}
	return rows
}

// FailureTable renders every recorded failure of a run report.
type FailureTable struct {
	Report *retention.RunReport
}

// Header implements Table.
func (t FailureTable) Header() []string {
	return []string{"PASS", "KIND", "PATH", "ERROR"}
}

// Rows implements Table.
func (t FailureTable) Rows() [][]string {
	var rows [][]string
	for _, p := range t.Report.Passes {
		for _, f := range p.Failures {
			rows = append(rows, []string{string(f.Pass), string(f.Kind), f.Path, f.Err})
		}
	}
	return rows
}

// HistoryTable renders journal entries, one row per run.
type HistoryTable struct {
	Records []*history.RunRecord
}

// Header implements Table.
func (t HistoryTable) Header() []string {
	return []string{"RUN_ID", "STARTED", "DURATION", "RESULT", "DRY_RUN", "MOVED", "DELETED", "FAILED", "ABORTED"}
}

// Rows implements Table.
func (t HistoryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records))
	for _, r := range t.Records {
		rows = append(rows, []string{
			r.RunID,
			r.StartedAt.Local().Format(time.RFC3339),
			r.Duration().Round(time.Millisecond).String(),
			r.Result,
			strconv.FormatBool(r.DryRun),
			strconv.Itoa(r.Moved),
			strconv.Itoa(r.Deleted),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.AbortedPasses),
		})
	}
	return rows
}
