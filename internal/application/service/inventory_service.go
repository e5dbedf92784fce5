package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/pagination"
)

// InventoryService manages inventory records outside of sales. Stock is set
// once at creation; afterwards only sales and voids move it.
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	Name      string
	UnitCost  int64
	UnitPrice int64
	Stock     int
}

// CreateItem creates a new inventory item
func (s *InventoryService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.InventoryItem, error) {
	verr := &ledger.ValidationError{}
	if input.Name == "" {
		verr.Add("name", "is required")
	}
	if input.UnitCost < 0 {
		verr.Add("unit_cost", "must not be negative")
	}
	if input.UnitPrice < 0 {
		verr.Add("unit_price", "must not be negative")
	}
	if input.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	item := &entity.InventoryItem{
		Name:      input.Name,
		UnitCost:  input.UnitCost,
		UnitPrice: input.UnitPrice,
		Stock:     input.Stock,
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &ledger.InventoryNotFoundError{ItemID: id}
	}
	return item, nil
}

// UpdateItemInput carries the fields an update may change. Nil fields are
// left alone.
type UpdateItemInput struct {
	ID        uuid.UUID
	Name      *string
	UnitCost  *int64
	UnitPrice *int64
}

// UpdateItem changes an item's name or prices
func (s *InventoryService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.InventoryItem, error) {
	item, err := s.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	verr := &ledger.ValidationError{}
	if input.Name != nil {
		if *input.Name == "" {
			verr.Add("name", "must not be empty")
		}
		item.Name = *input.Name
	}
	if input.UnitCost != nil {
		if *input.UnitCost < 0 {
			verr.Add("unit_cost", "must not be negative")
		}
		item.UnitCost = *input.UnitCost
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			verr.Add("unit_price", "must not be negative")
		}
		item.UnitPrice = *input.UnitPrice
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.UpdateDetails(ctx, item); err != nil {
		return nil, err
	}
	return s.GetItem(ctx, input.ID)
}

// ListItems lists inventory items by name
func (s *InventoryService) ListItems(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	params.Validate()
	items, total, err := s.inventoryRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}
