package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// the schema.
func NewSQLiteStore(dbPath string, clock clockwork.Clock) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers; SQLite locks the whole
	// file anyway, and this avoids SQLITE_BUSY under concurrent
	// increments.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, clock: clock}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id         TEXT PRIMARY KEY,
		caller_id  TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_caller_id ON feedback(caller_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);

	CREATE TABLE IF NOT EXISTS usage_counters (
		command TEXT PRIMARY KEY,
		count   INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AppendFeedback inserts a feedback row. A zero ID or CreatedAt is
// filled in here.
func (s *SQLiteStore) AppendFeedback(ctx context.Context, entry FeedbackEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, caller_id, message, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.CallerID, entry.Message, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}

// IncrementUsage bumps the command counter by one. The upsert is a
// single atomic statement, so concurrent increments never lose updates.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, command string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_counters (command, count) VALUES (?, 1)
		 ON CONFLICT(command) DO UPDATE SET count = count + 1`,
		command,
	)
	if err != nil {
		return fmt.Errorf("increment usage for %s: %w", command, err)
	}
	return nil
}

// UsageCounts returns the per-command counters.
func (s *SQLiteStore) UsageCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT command, count FROM usage_counters`)
	if err != nil {
		return nil, fmt.Errorf("query usage counters: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var command string
		var count int64
		if err := rows.Scan(&command, &count); err != nil {
			return nil, err
		}
		counts[command] = count
	}
	return counts, rows.Err()
}

// FeedbackCount returns the total number of feedback entries.
func (s *SQLiteStore) FeedbackCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

// ListFeedback returns the most recent feedback entries, newest first.
func (s *SQLiteStore) ListFeedback(ctx context.Context, limit int) ([]FeedbackEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, caller_id, message, created_at FROM feedback
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []FeedbackEntry
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(&e.ID, &e.CallerID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
