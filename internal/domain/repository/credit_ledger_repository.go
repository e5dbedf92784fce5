package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
)

// CreditLedgerRepository stores the append-only customer credit log
type CreditLedgerRepository interface {
	Create(ctx context.Context, entry *entity.CreditLedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditLedgerEntry, error)
	// MarkDeleted flips an active entry to deleted. It reports false when
	// the entry was not active.
	MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, includeDeleted bool) ([]entity.CreditLedgerEntry, error)
	ListActive(ctx context.Context) ([]entity.CreditLedgerEntry, error)
}
