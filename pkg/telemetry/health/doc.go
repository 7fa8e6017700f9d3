// Package health provides the health endpoint of the sweeper daemon.
//
// A Checker runs named CheckFuncs in name order, each with a timeout, and
// aggregates them into "ok" or "degraded". The daemon registers:
//
//   - active_dir, staged_dir, backup_dir: the managed directories resolve
//     to directories (staged may be missing; it is created on demand)
//   - last_run: the latest run did not skip a pass and is recent enough
//
// RunTracker is attached to the scheduler as a report sink and feeds the
// last_run check.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("active_dir", health.DirectoryCheck(cfg.Directories.Active, false))
//	health.Register(mux, checker, "/health", version, commit, buildTime)
package health
