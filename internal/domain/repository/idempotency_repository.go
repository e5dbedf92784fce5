package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key recorded for an endpoint
	GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error)
	// Reserve stores a pending key. It reports false when the (key, endpoint)
	// pair is already taken.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response for a reserved key
	Complete(ctx context.Context, id uuid.UUID, code int, body string, expiresAt time.Time) error
	// Release drops a reservation that never completed
	Release(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
