// Package journal keeps an in-memory SQLite record of the remote calls made during
// one session. Nothing is written to disk; the journal disappears with the process.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Operation names a kind of remote call.
type Operation string

// Journaled operations.
const (
	OpGenerate Operation = "generate"
	OpEvaluate Operation = "evaluate"
	OpSimulate Operation = "simulate"
	OpChat     Operation = "chat"
)

// Outcome is how a call ended.
type Outcome string

// Call outcomes. Dropped calls resolved after the session was reset.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeDropped Outcome = "dropped"
)

// Call is one journaled remote call.
type Call struct {
	StartedAt time.Time
	SessionID string
	RequestID string
	Operation Operation
	Outcome   Outcome
	PlanKey   string
	Detail    string
	Duration  time.Duration
}

// OperationStats summarizes the calls of one operation.
type OperationStats struct {
	Operation   Operation
	Calls       int
	Failures    int
	AvgDuration time.Duration
}

// Journal is an in-memory SQLite call journal.
type Journal struct {
	db     *sql.DB
	closed bool
	mu     sync.Mutex
}

// Open creates an empty in-memory journal.
func Open(ctx context.Context) (*Journal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file::memory:?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// Each connection to :memory: is its own database, so pin the pool to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close releases the database. Closing twice is a no-op.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

// Record stores one call.
func (j *Journal) Record(ctx context.Context, call Call) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCall(call); err != nil {
		return err
	}
	if call.StartedAt.IsZero() {
		call.StartedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO calls (session_id, request_id, operation, outcome, plan_key, detail, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		call.SessionID, call.RequestID, string(call.Operation), string(call.Outcome),
		nullString(call.PlanKey), nullString(call.Detail),
		call.StartedAt.UTC(), call.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record %s call: %w", call.Operation, err)
	}
	return nil
}

// Calls returns the calls of a session in the order they were recorded.
func (j *Journal) Calls(ctx context.Context, sessionID string) ([]Call, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := requireString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, request_id, operation, outcome, plan_key, detail, started_at, duration_ms
		FROM calls
		WHERE session_id = ?
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []Call
	for rows.Next() {
		var (
			call       Call
			operation  string
			outcome    string
			planKey    sql.NullString
			detail     sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&call.SessionID, &call.RequestID, &operation, &outcome,
			&planKey, &detail, &call.StartedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}
		call.Operation = Operation(operation)
		call.Outcome = Outcome(outcome)
		call.PlanKey = planKey.String
		call.Detail = detail.String
		call.Duration = time.Duration(durationMS) * time.Millisecond
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// Stats summarizes a session's calls per operation, ordered by operation name.
func (j *Journal) Stats(ctx context.Context, sessionID string) ([]OperationStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := requireString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT operation,
		       COUNT(*),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       COALESCE(AVG(duration_ms), 0)
		FROM calls
		WHERE session_id = ?
		GROUP BY operation
		ORDER BY operation`, string(OutcomeError), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []OperationStats
	for rows.Next() {
		var (
			s         OperationStats
			operation string
			avgMS     float64
		)
		if err := rows.Scan(&operation, &s.Calls, &s.Failures, &avgMS); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		s.Operation = Operation(operation)
		s.AvgDuration = time.Duration(avgMS * float64(time.Millisecond))
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// EvaluationsForPlan counts evaluation calls made for one plan fingerprint.
func (j *Journal) EvaluationsForPlan(ctx context.Context, sessionID, planKey string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM calls
		WHERE session_id = ? AND operation = ? AND plan_key = ?`,
		sessionID, string(OpEvaluate), planKey).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
