package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
)

// ErrConflict is returned by a conditional write whose record changed after
// it was read. The unit of work retries the whole body when it sees it.
var ErrConflict = errors.New("concurrent modification")

// ReadTx is the read phase of an atomic unit. It has no write methods, so
// every read of a unit happens before its first write.
type ReadTx interface {
	// InventoryByIDs loads the given items in one batch. Missing IDs are
	// absent from the map.
	InventoryByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.InventoryItem, error)
	// SaleByID loads a sale with its items, or nil when absent.
	SaleByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// Counter loads a named counter, or nil when it was never written.
	Counter(ctx context.Context, name string) (*entity.ReceiptCounter, error)
}

// WriteTx is the write phase of an atomic unit. Conditional writes take the
// version observed during the read phase and fail with ErrConflict when the
// stored version differs.
type WriteTx interface {
	CreateInventoryItem(ctx context.Context, item *entity.InventoryItem) error
	SetStock(ctx context.Context, itemID uuid.UUID, expectedVersion int64, stock int) error
	// SaveCounter inserts the counter when expectedVersion is 0 and updates
	// it conditionally otherwise.
	SaveCounter(ctx context.Context, name string, expectedVersion int64, value int64) error
	CreateSale(ctx context.Context, sale *entity.Sale) error
	MarkSaleVoided(ctx context.Context, saleID uuid.UUID, expectedVersion int64, at time.Time) error
}

// WriteFunc is the write phase returned by a ReadFunc.
type WriteFunc func(ctx context.Context, w WriteTx) error

// ReadFunc reads and validates, then returns the writes to apply. An error
// aborts the unit without retry.
type ReadFunc func(ctx context.Context, r ReadTx) (WriteFunc, error)

// UnitOfWork runs read-validate-write bodies all-or-nothing. On ErrConflict
// (or the store's own serialization failures) the whole body is run again
// until the retry budget is spent, which surfaces as an error wrapping
// retry.ErrExhausted.
type UnitOfWork interface {
	Atomic(ctx context.Context, fn ReadFunc) error
}
