package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/apperror"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"github.com/sangkips/pos-ledger/pkg/money"
	"github.com/sangkips/pos-ledger/pkg/pagination"
	"go.uber.org/zap"
)

// DefaultNewItemStock is the stock given to items created inline by a sale.
const DefaultNewItemStock = 100

// SaleOptions tunes the sale coordinator
type SaleOptions struct {
	// Location decides which calendar day a sale belongs to.
	Location     *time.Location
	NewItemStock int
	ReceiptTag   string
}

// SaleService records and voids sales. Stock, the receipt counter and the
// sale row always change together inside one atomic unit.
type SaleService struct {
	uow       repository.UnitOfWork
	saleRepo  repository.SaleRepository
	days      repository.DayStatusChecker
	allocator *SequenceAllocator
	opts      SaleOptions
	now       func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	uow repository.UnitOfWork,
	saleRepo repository.SaleRepository,
	days repository.DayStatusChecker,
	opts SaleOptions,
) *SaleService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.NewItemStock <= 0 {
		opts.NewItemStock = DefaultNewItemStock
	}
	if opts.ReceiptTag == "" {
		opts.ReceiptTag = "S"
	}
	return &SaleService{
		uow:       uow,
		saleRepo:  saleRepo,
		days:      days,
		allocator: NewSequenceAllocator(),
		opts:      opts,
		now:       time.Now,
	}
}

// SaleLineInput is one requested line. A nil ItemID creates a new inventory
// item named Name as part of the sale.
type SaleLineInput struct {
	ItemID    *uuid.UUID
	Name      string
	Quantity  int
	UnitPrice int64
	UnitCost  int64
}

// RecordSaleInput represents the record sale input
type RecordSaleInput struct {
	Items         []SaleLineInput
	CustomerLabel *string
	ServiceType   *string
}

// RecordSaleResult identifies a committed sale
type RecordSaleResult struct {
	ID            uuid.UUID `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`
	DisplayID     string    `json:"display_id"`
	Total         int64     `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON renders the total as a decimal amount
func (r RecordSaleResult) MarshalJSON() ([]byte, error) {
	type Alias RecordSaleResult
	return json.Marshal(&struct {
		Alias
		Total json.Number `json:"total"`
	}{
		Alias: Alias(r),
		Total: money.JSON(r.Total),
	})
}

func validateSaleInput(input *RecordSaleInput) error {
	verr := &ledger.ValidationError{}
	if input == nil || len(input.Items) == 0 {
		verr.Add("items", "at least one item is required")
		return verr
	}
	var total int64
	for i, line := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.Quantity <= 0 {
			verr.Add(field+".quantity", "must be greater than zero")
		}
		if line.UnitPrice < 0 {
			verr.Add(field+".unit_price", "must not be negative")
		}
		if line.UnitCost < 0 {
			verr.Add(field+".unit_cost", "must not be negative")
		}
		if line.ItemID == nil && line.Name == "" {
			verr.Add(field+".name", "is required for a new item")
		}
		if line.Quantity <= 0 || line.UnitPrice <= 0 {
			continue
		}
		if int64(line.Quantity) > math.MaxInt64/line.UnitPrice {
			verr.Add(field, "line total is too large")
			continue
		}
		lineTotal := int64(line.Quantity) * line.UnitPrice
		if total > math.MaxInt64-lineTotal {
			verr.Add("items", "sale total is too large")
			return verr
		}
		total += lineTotal
	}
	return verr.OrNil()
}

// requestedStock sums quantities per referenced item and returns the IDs in
// a stable order.
func requestedStock(lines []SaleLineInput) (map[uuid.UUID]int, []uuid.UUID) {
	requested := make(map[uuid.UUID]int)
	for _, line := range lines {
		if line.ItemID != nil {
			requested[*line.ItemID] += line.Quantity
		}
	}
	return requested, sortedIDs(requested)
}

func sortedIDs(m map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// RecordSale deducts stock, numbers the receipt and stores the sale in one
// atomic unit. Nothing is written when any line fails validation.
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*RecordSaleResult, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	day := entity.DayKey(now, s.opts.Location)
	closed, err := s.days.IsDayClosed(ctx, day)
	if err != nil {
		return nil, transactionError("record sale", fmt.Errorf("day status: %w", err))
	}
	if closed {
		return nil, &ledger.DayClosedError{Date: day}
	}

	requested, ids := requestedStock(input.Items)

	var sale *entity.Sale
	// Once started, the unit runs to commit or abort even if the caller goes away.
	err = s.uow.Atomic(context.WithoutCancel(ctx), func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		items, err := r.InventoryByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("read inventory: %w", err)
		}
		receipt, err := s.allocator.Reserve(ctx, r, ledger.SaleReceiptCounter)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			item, ok := items[id]
			if !ok {
				return nil, &ledger.InventoryNotFoundError{ItemID: id}
			}
			if item.Stock < requested[id] {
				return nil, &ledger.InsufficientStockError{
					ItemID:    id,
					Available: item.Stock,
					Requested: requested[id],
				}
			}
		}

		return func(ctx context.Context, w repository.WriteTx) error {
			draft := &entity.Sale{
				ReceiptSeq:    receipt.Value,
				ReceiptNumber: ledger.FormatReceiptNumber(receipt.Value),
				Status:        enum.SaleStatusActive,
				CustomerLabel: input.CustomerLabel,
				ServiceType:   input.ServiceType,
				CreatedAt:     now,
				Items:         make([]entity.SaleItem, 0, len(input.Items)),
			}

			for _, line := range input.Items {
				var itemID uuid.UUID
				name := line.Name
				if line.ItemID == nil {
					created := &entity.InventoryItem{
						ID:        uuid.New(),
						Name:      line.Name,
						UnitCost:  line.UnitCost,
						UnitPrice: line.UnitPrice,
						Stock:     s.opts.NewItemStock,
					}
					if err := w.CreateInventoryItem(ctx, created); err != nil {
						return fmt.Errorf("create inventory item: %w", err)
					}
					itemID = created.ID
				} else {
					itemID = *line.ItemID
					if name == "" {
						name = items[itemID].Name
					}
				}

				lineTotal := int64(line.Quantity) * line.UnitPrice
				draft.Items = append(draft.Items, entity.SaleItem{
					ItemID:    itemID,
					ItemName:  name,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					LineTotal: lineTotal,
				})
				draft.Total += lineTotal
			}

			for _, id := range ids {
				item := items[id]
				if err := w.SetStock(ctx, id, item.Version, item.Stock-requested[id]); err != nil {
					return err
				}
			}
			if err := receipt.Apply(ctx, w); err != nil {
				return err
			}
			if err := w.CreateSale(ctx, draft); err != nil {
				return err
			}
			sale = draft
			return nil
		}, nil
	})
	if err != nil {
		return nil, transactionError("record sale", err)
	}

	logger.L().Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.Int("lines", len(sale.Items)),
		zap.Int64("total_cents", sale.Total),
	)

	return &RecordSaleResult{
		ID:            sale.ID,
		ReceiptNumber: sale.ReceiptNumber,
		DisplayID:     ledger.ReceiptDisplayID(sale.CreatedAt.In(s.opts.Location), s.opts.ReceiptTag, sale.ReceiptSeq),
		Total:         sale.Total,
		CreatedAt:     sale.CreatedAt,
	}, nil
}

// VoidSale puts every line's quantity back into stock and marks the sale
// voided. A missing inventory record aborts the void and leaves the sale
// active.
func (s *SaleService) VoidSale(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	var voided *entity.Sale
	err := s.uow.Atomic(context.WithoutCancel(ctx), func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		sale, err := r.SaleByID(ctx, saleID)
		if err != nil {
			return nil, fmt.Errorf("read sale: %w", err)
		}
		if sale == nil {
			return nil, &ledger.NotFoundError{Resource: "sale", ID: saleID}
		}
		if sale.IsVoided() {
			return nil, &ledger.AlreadyVoidedError{SaleID: saleID}
		}

		restore := sale.QuantitiesByItem()
		ids := sortedIDs(restore)
		items, err := r.InventoryByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("read inventory: %w", err)
		}
		for _, id := range ids {
			if _, ok := items[id]; !ok {
				return nil, &ledger.InventoryNotFoundError{ItemID: id}
			}
		}

		return func(ctx context.Context, w repository.WriteTx) error {
			for _, id := range ids {
				item := items[id]
				if err := w.SetStock(ctx, id, item.Version, item.Stock+restore[id]); err != nil {
					return err
				}
			}

			at := s.now()
			if err := w.MarkSaleVoided(ctx, sale.ID, sale.Version, at); err != nil {
				return err
			}
			sale.Status = enum.SaleStatusVoided
			sale.VoidedAt = &at
			sale.Version++
			voided = sale
			return nil
		}, nil
	})
	if err != nil {
		return nil, transactionError("void sale", err)
	}

	logger.L().Info("sale voided",
		zap.String("sale_id", voided.ID.String()),
		zap.String("receipt_number", voided.ReceiptNumber),
		zap.Int("lines", len(voided.Items)),
	)
	return voided, nil
}

// GetSale retrieves a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &ledger.NotFoundError{Resource: "sale", ID: id}
	}
	return sale, nil
}

// ListSales lists sales, newest receipt first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// transactionError passes domain errors through and hides everything else,
// retry exhaustion included, behind TransactionFailedError.
func transactionError(op string, err error) error {
	var coded apperror.StatusCoder
	if errors.As(err, &coded) {
		return err
	}
	logger.L().Error("transaction failed", zap.String("op", op), zap.Error(err))
	return &ledger.TransactionFailedError{Op: op, Err: err}
}
