package journal

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaVersion is stamped into PRAGMA user_version once the schema is created.
const schemaVersion = 1

// schema creates the calls table. plan_key carries the plan fingerprint so
// evaluations can be counted per plan.
var schema = []string{
	`CREATE TABLE calls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		request_id TEXT NOT NULL,
		operation TEXT NOT NULL CHECK (operation IN ('generate', 'evaluate', 'simulate', 'chat')),
		outcome TEXT NOT NULL CHECK (outcome IN ('success', 'error', 'dropped')),
		plan_key TEXT,
		detail TEXT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX idx_calls_session ON calls(session_id, started_at)`,
	`CREATE INDEX idx_calls_plan_key ON calls(session_id, operation, plan_key)`,
}

// migrate creates the schema in a fresh in-memory database. The journal never
// outlives the process, so there is no upgrade path.
func (j *Journal) migrate(ctx context.Context) error {
	var version int
	if err := j.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}
	if version != 0 {
		return fmt.Errorf("journal schema version mismatch: expected %d, got %d", schemaVersion, version)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create journal schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to stamp schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal schema: %w", err)
	}

	slog.Debug("Created journal schema", "version", schemaVersion)
	return nil
}
