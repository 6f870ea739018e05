package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sentryline/fraud-triage/internal/domain"
)

// AuditStore defines the contract for the durable audit trail.
//
// Writes are fire-and-forget from the caller's perspective: the application
// logs a failed write and still returns the verdict. Nothing else derived
// during a request is persisted.
type AuditStore interface {
	// RecordEvent appends one audit event
	RecordEvent(ctx context.Context, event *domain.AuditEvent) error

	// FlagTransactionForReview marks a transaction as pending manual review
	FlagTransactionForReview(ctx context.Context, txID uuid.UUID, score int, signals []string) error

	// Lifecycle
	Close() error
}
