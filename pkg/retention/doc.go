// Package retention implements the tiered, age-based file retention policy.
//
// # Tiers
//
// Three directories take part in every run, each with its own age threshold:
//
//   - Active: stale files are demoted (moved) into Staged. The scan is
//     recursive, but files land flat in Staged and subdirectories stay put.
//     Files whose name ends with an exempt extension are never demoted.
//   - Staged: files older than the staged threshold are deleted. The scan is
//     flat; subdirectories are ignored.
//   - Backup: files older than the backup threshold are deleted. The scan is
//     flat and never passes through Staged.
//
// Age is always measured from the file's modification time. A demotion keeps
// the original modification time, so Staged aging continues from the file's
// true age rather than from the moment it was moved.
//
// # Basic Usage
//
//	engine, err := retention.NewEngine(retention.PolicyConfig{
//	    ActiveDir:        "/home/me/Downloads",
//	    StagedDir:        "/home/me/.sweeper/staged",
//	    BackupDir:        "/srv/backups",
//	    ActiveDays:       15,
//	    StagedDays:       90,
//	    BackupDays:       180,
//	    ExemptExtensions: retention.DefaultExemptExtensions,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := engine.Run()
//	fmt.Println(report.Totals().Moved, "files staged")
//
// # Failure Isolation
//
// Nothing in a run is fatal. A directory that is missing or unreadable
// aborts only the pass that needs it, a file that cannot be moved or deleted
// is recorded as Failed and skipped, and a subdirectory that cannot be listed
// during the Active scan is skipped and counted. Run always returns a report.
//
// # Scheduling
//
// The Scheduler triggers Run once at startup and then on a cron schedule
// ("0 9 * * *", daily at 09:00, by default). Runs are assumed not to overlap;
// the scheduler does not guard against it.
package retention
