// Package history implements the run history journal.
//
// Every retention run produces a RunRecord (totals plus the full report)
// that a Recorder writes to a Store. The journal is write-only from the
// engine's point of view; it is never consulted when deciding what to move
// or delete. The CLI reads it back with "sweeper history".
//
// # Backends
//
//   - SQLiteStore: persistent, using either the pure-Go driver
//     modernc.org/sqlite ("sqlite") or the cgo driver
//     github.com/mattn/go-sqlite3 ("sqlite3")
//   - MemoryStore: in-process, for tests and for runs without a journal
//
// Timestamps are stored as Unix nanoseconds so both drivers read them back
// identically.
package history
