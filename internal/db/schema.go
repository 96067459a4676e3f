package db

import "database/sql"

// SchemaSQL is the authoritative schema for the run journal. Tests use it via
// GetSchemaSQL instead of hardcoding their own copy, so repository code and
// tests cannot drift apart.
const SchemaSQL = `
-- Runs (one row per invocation that produced a plan)
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	action TEXT NOT NULL,
	version TEXT NOT NULL,
	branch TEXT,
	outcome TEXT NOT NULL CHECK(outcome IN ('succeeded', 'failed')),
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_version ON runs(version);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

-- Run steps (ordered step outcomes within a run)
CREATE TABLE IF NOT EXISTS run_steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	description TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('succeeded', 'skipped', 'failed')),
	detail TEXT,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE,
	UNIQUE(run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run ON run_steps(run_id);
`

// InitSchema creates the journal schema on the given connection.
func InitSchema(conn *sql.DB) error {
	_, err := conn.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
