package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// PostgresStore implements ports.AuditStore for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the audit tables if they don't exist.
// In production, use proper migration tooling instead.
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- Append-only audit trail. One row per scoring decision; the details
	-- JSONB keeps the schema stable while the verdict payload evolves.
	CREATE TABLE IF NOT EXISTS audit_events (
		id UUID PRIMARY KEY,
		actor VARCHAR(100) NOT NULL,
		action VARCHAR(50) NOT NULL,
		target TEXT NOT NULL,
		details JSONB,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_events_action_time
		ON audit_events(action, created_at);

	-- Transactions whose composite risk crossed the review threshold.
	-- status starts at 'pending' and is resolved by the review workflow,
	-- which lives outside this service.
	CREATE TABLE IF NOT EXISTS transaction_reviews (
		transaction_id UUID PRIMARY KEY,
		score INT NOT NULL,
		signals JSONB,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		flagged_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RecordEvent appends one audit event
func (s *PostgresStore) RecordEvent(ctx context.Context, event *domain.AuditEvent) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal event details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, actor, action, target, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Actor, event.Action, event.Target, details, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// FlagTransactionForReview marks a transaction pending manual review.
// Re-flagging an already-flagged transaction updates the score but keeps
// the original pending status.
func (s *PostgresStore) FlagTransactionForReview(ctx context.Context, txID uuid.UUID, score int, signals []string) error {
	payload, err := json.Marshal(signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transaction_reviews (transaction_id, score, signals, status, flagged_at)
		VALUES ($1, $2, $3, 'pending', $4)
		ON CONFLICT (transaction_id) DO UPDATE
			SET score = EXCLUDED.score, signals = EXCLUDED.signals`,
		txID, score, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to flag transaction %s: %w", txID, err)
	}
	return nil
}
