package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/retry"
	"gorm.io/gorm"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type unitOfWork struct {
	db     *gorm.DB
	policy retry.Policy
}

// NewUnitOfWork creates a database-backed UnitOfWork. Each attempt runs in
// its own transaction; conditional writes check the version column.
func NewUnitOfWork(db *gorm.DB, policy retry.Policy) domainRepo.UnitOfWork {
	return &unitOfWork{db: db, policy: policy}
}

func (u *unitOfWork) Atomic(ctx context.Context, fn domainRepo.ReadFunc) error {
	return retry.Do(ctx, u.policy, IsConflict, func(ctx context.Context, attempt int) error {
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			write, err := fn(ctx, &readTx{db: tx})
			if err != nil {
				return err
			}
			if write == nil {
				return nil
			}
			return write(ctx, &writeTx{db: tx})
		})
	})
}

// IsConflict reports whether err means a concurrent writer won and the unit
// should be run again.
func IsConflict(err error) bool {
	if errors.Is(err, domainRepo.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

type readTx struct {
	db *gorm.DB
}

func (r *readTx) InventoryByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.InventoryItem, error) {
	out := make(map[uuid.UUID]*entity.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []entity.InventoryItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *readTx) SaleByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *readTx) Counter(ctx context.Context, name string) (*entity.ReceiptCounter, error) {
	var counter entity.ReceiptCounter
	err := r.db.WithContext(ctx).First(&counter, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

type writeTx struct {
	db *gorm.DB
}

func (w *writeTx) CreateInventoryItem(ctx context.Context, item *entity.InventoryItem) error {
	return w.db.WithContext(ctx).Create(item).Error
}

func (w *writeTx) SetStock(ctx context.Context, itemID uuid.UUID, expectedVersion int64, stock int) error {
	res := w.db.WithContext(ctx).
		Model(&entity.InventoryItem{}).
		Where("id = ? AND version = ?", itemID, expectedVersion).
		Updates(map[string]interface{}{
			"stock":   stock,
			"version": gorm.Expr("version + 1"),
		})
	return conditional(res)
}

func (w *writeTx) SaveCounter(ctx context.Context, name string, expectedVersion int64, value int64) error {
	if expectedVersion == 0 {
		return w.db.WithContext(ctx).Create(&entity.ReceiptCounter{
			Name:         name,
			CurrentValue: value,
			Version:      1,
		}).Error
	}

	res := w.db.WithContext(ctx).
		Model(&entity.ReceiptCounter{}).
		Where("name = ? AND version = ?", name, expectedVersion).
		Updates(map[string]interface{}{
			"current_value": value,
			"version":       gorm.Expr("version + 1"),
		})
	return conditional(res)
}

func (w *writeTx) CreateSale(ctx context.Context, sale *entity.Sale) error {
	return w.db.WithContext(ctx).Create(sale).Error
}

func (w *writeTx) MarkSaleVoided(ctx context.Context, saleID uuid.UUID, expectedVersion int64, at time.Time) error {
	res := w.db.WithContext(ctx).
		Model(&entity.Sale{}).
		Where("id = ? AND version = ? AND status = ?", saleID, expectedVersion, enum.SaleStatusActive).
		Updates(map[string]interface{}{
			"status":    enum.SaleStatusVoided,
			"voided_at": at,
			"version":   gorm.Expr("version + 1"),
		})
	return conditional(res)
}

// conditional turns a guarded UPDATE that matched nothing into ErrConflict.
func conditional(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrConflict
	}
	return nil
}
