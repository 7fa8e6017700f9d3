package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"mercator-hq/sweeper/pkg/retention"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite history store.
type SQLiteConfig struct {
	// Driver is the database/sql driver: "sqlite" (modernc.org/sqlite) or
	// "sqlite3" (github.com/mattn/go-sqlite3).
	// Default: "sqlite"
	Driver string

	// Path is the database file path. ":memory:" opens a private in-memory
	// database.
	Path string

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverModernc,
		Path:        "data/history.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (and if needed creates) the history database.
func NewSQLiteStore(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverMattn {
		return nil, NewStorageError(config.Driver, "open", fmt.Errorf("unsupported driver %q", config.Driver))
	}
	if config.Path == "" {
		return nil, NewStorageError(config.Driver, "open", errors.New("database path is required"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.sqlite", "driver", config.Driver)

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, NewStorageError(config.Driver, "mkdir", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError(config.Driver, "open", err)
	}

	// One connection keeps PRAGMAs in effect and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets PRAGMAs, creates the schema and checks its version.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode && s.config.Path != ":memory:" {
		// journal_mode returns a row; QueryRow works with both drivers.
		var mode string
		if err := s.db.QueryRow("PRAGMA journal_mode=WAL;").Scan(&mode); err != nil {
			return NewStorageError(s.config.Driver, "enable_wal", err)
		}
		s.logger.Debug("journal mode set", "mode", mode)
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError(s.config.Driver, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(s.config.Driver, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version sql.NullInt64
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(s.config.Driver, "get_schema_version", err)
	}
	if !version.Valid || version.Int64 != SchemaVersion {
		return NewStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version.Int64))
	}

	return nil
}

// Record inserts or replaces a run.
func (s *SQLiteStore) Record(ctx context.Context, rec *RunRecord) error {
	var report sql.NullString
	if rec.Report != nil {
		data, err := json.Marshal(rec.Report)
		if err != nil {
			return NewStorageError(s.config.Driver, "marshal_report", err)
		}
		report = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT OR REPLACE INTO runs (
			run_id, started_at, finished_at, dry_run, result,
			scanned, moved, deleted, skipped_exempt, skipped_not_aged,
			failed, scan_skipped, aborted_passes, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.RunID, rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano(), rec.DryRun, rec.Result,
		rec.Scanned, rec.Moved, rec.Deleted, rec.SkippedExempt, rec.SkippedNotAged,
		rec.Failed, rec.ScanSkipped, rec.AbortedPasses, report,
	)
	if err != nil {
		return NewStorageError(s.config.Driver, "record", err)
	}

	s.logger.Debug("run recorded", "run_id", rec.RunID, "result", rec.Result)
	return nil
}

const selectColumns = `
	run_id, started_at, finished_at, dry_run, result,
	scanned, moved, deleted, skipped_exempt, skipped_not_aged,
	failed, scan_skipped, aborted_passes, report
`

// Get returns the run with runID.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM runs WHERE run_id = ?", runID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "get", err)
	}
	return rec, nil
}

// List returns runs matching q, newest first.
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]*RunRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if !q.Since.IsZero() {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.FailuresOnly {
		conditions = append(conditions, "result = ?")
		args = append(args, ResultPartial)
	}

	query := "SELECT " + selectColumns + " FROM runs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC, run_id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "list", err)
	}
	defer rows.Close()

	var results []*RunRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "list", err)
	}
	return results, nil
}

// Prune keeps the newest keep runs.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_id NOT IN (
			SELECT run_id FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "prune", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "prune", err)
	}
	if deleted > 0 {
		s.logger.Info("history pruned", "deleted", deleted, "kept", keep)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(s.config.Driver, "close", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*RunRecord, error) {
	var (
		rec                 RunRecord
		startedAt, finished int64
		report              sql.NullString
	)
	err := row.Scan(
		&rec.RunID, &startedAt, &finished, &rec.DryRun, &rec.Result,
		&rec.Scanned, &rec.Moved, &rec.Deleted, &rec.SkippedExempt, &rec.SkippedNotAged,
		&rec.Failed, &rec.ScanSkipped, &rec.AbortedPasses, &report,
	)
	if err != nil {
		return nil, err
	}

	rec.StartedAt = time.Unix(0, startedAt)
	rec.FinishedAt = time.Unix(0, finished)

	if report.Valid && report.String != "" {
		var r retention.RunReport
		if err := json.Unmarshal([]byte(report.String), &r); err != nil {
			return nil, fmt.Errorf("decode report of run %s: %w", rec.RunID, err)
		}
		rec.Report = &r
	}
	return &rec, nil
}
