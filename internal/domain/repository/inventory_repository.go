package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/pkg/pagination"
)

// InventoryRepository defines standalone access to inventory records.
// Stock is never changed here; sales and voids go through a UnitOfWork.
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error)
	// UpdateDetails changes name and prices and bumps the version.
	UpdateDetails(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryItem, int64, error)
}
