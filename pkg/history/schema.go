package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,
    dry_run BOOLEAN NOT NULL,
    result TEXT NOT NULL,

    scanned INTEGER NOT NULL,
    moved INTEGER NOT NULL,
    deleted INTEGER NOT NULL,
    skipped_exempt INTEGER NOT NULL,
    skipped_not_aged INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    scan_skipped INTEGER NOT NULL,
    aborted_passes INTEGER NOT NULL,

    -- Full run report as JSON
    report TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_result ON runs(result);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version if absent.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion returns the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
