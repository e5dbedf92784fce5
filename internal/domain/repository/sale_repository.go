package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/pkg/pagination"
)

// SaleRepository defines read access to committed sales
type SaleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.SaleStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
