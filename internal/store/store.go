// Package store persists feedback entries and per-command usage
// counters. Both are append-only: entries are never mutated and
// counters are never decremented, so the admin view is a consistent,
// replayable log.
package store

import (
	"context"
	"time"
)

// FeedbackEntry is one free-text feedback message from a user.
type FeedbackEntry struct {
	ID        string    `json:"id"`
	CallerID  string    `json:"callerId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the contract the SQLite store (and any future backend)
// must satisfy. Append and increment must be safe under concurrent
// use from simultaneously handled commands.
type Store interface {
	// AppendFeedback records a feedback entry. Storage errors
	// propagate: a lost /feedback must never be silently dropped.
	AppendFeedback(ctx context.Context, entry FeedbackEntry) error

	// IncrementUsage bumps the counter for a command by one. Callers
	// treat failures as best-effort and must not block the reply.
	IncrementUsage(ctx context.Context, command string) error

	UsageCounts(ctx context.Context) (map[string]int64, error)
	FeedbackCount(ctx context.Context) (int64, error)
	ListFeedback(ctx context.Context, limit int) ([]FeedbackEntry, error)

	Close() error
}
