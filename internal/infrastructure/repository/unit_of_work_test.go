package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/internal/infrastructure/database"
	"github.com/sangkips/pos-ledger/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), "silent")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestUnitOfWork_SetStock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	item := &entity.InventoryItem{Name: "Rice", UnitPrice: 5000, Stock: 5}
	require.NoError(t, NewInventoryRepository(db).Create(ctx, item))

	uow := NewUnitOfWork(db, fastPolicy(3))
	err := uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
		items, err := r.InventoryByIDs(ctx, []uuid.UUID{item.ID, uuid.New()})
		if err != nil {
			return nil, err
		}
		require.Len(t, items, 1)
		current := items[item.ID]
		return func(ctx context.Context, w domainRepo.WriteTx) error {
			return w.SetStock(ctx, current.ID, current.Version, current.Stock-3)
		}, nil
	})
	require.NoError(t, err)

	got, err := NewInventoryRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, int64(2), got.Version)
}

func TestUnitOfWork_StaleVersionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	item := &entity.InventoryItem{Name: "Oil", UnitPrice: 12000, Stock: 10}
	require.NoError(t, NewInventoryRepository(db).Create(ctx, item))

	attempts := 0
	uow := NewUnitOfWork(db, fastPolicy(3))
	err := uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
		attempts++
		return func(ctx context.Context, w domainRepo.WriteTx) error {
			if err := w.SaveCounter(ctx, "saleReceipt", 0, 1); err != nil {
				return err
			}
			return w.SetStock(ctx, item.ID, 42, 1)
		}, nil
	})

	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.ErrorIs(t, err, domainRepo.ErrConflict)
	assert.Equal(t, 3, attempts)

	var counters int64
	require.NoError(t, db.Model(&entity.ReceiptCounter{}).Count(&counters).Error)
	assert.Zero(t, counters, "counter insert must roll back with the failed unit")

	got, _ := NewInventoryRepository(db).GetByID(ctx, item.ID)
	assert.Equal(t, 10, got.Stock)
}

func TestUnitOfWork_CounterLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uow := NewUnitOfWork(db, fastPolicy(1))

	next := func() (int64, error) {
		var reserved int64
		err := uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
			c, err := r.Counter(ctx, "saleReceipt")
			if err != nil {
				return nil, err
			}
			var version, current int64
			if c != nil {
				version, current = c.Version, c.CurrentValue
			}
			reserved = current + 1
			return func(ctx context.Context, w domainRepo.WriteTx) error {
				return w.SaveCounter(ctx, "saleReceipt", version, reserved)
			}, nil
		})
		return reserved, err
	}

	for want := int64(1); want <= 3; want++ {
		got, err := next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestUnitOfWork_DuplicateCounterInsertIsConflict(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.Create(&entity.ReceiptCounter{Name: "saleReceipt", CurrentValue: 7, Version: 1}).Error)

	uow := NewUnitOfWork(db, fastPolicy(2))
	err := uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
		return func(ctx context.Context, w domainRepo.WriteTx) error {
			return w.SaveCounter(ctx, "saleReceipt", 0, 1)
		}, nil
	})

	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUnitOfWork_CreateAndVoidSale(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	item := &entity.InventoryItem{Name: "Soap", UnitPrice: 3500, Stock: 4}
	require.NoError(t, NewInventoryRepository(db).Create(ctx, item))

	uow := NewUnitOfWork(db, fastPolicy(1))
	sale := &entity.Sale{
		ReceiptSeq:    1,
		ReceiptNumber: "000001",
		Total:         7000,
		Status:        enum.SaleStatusActive,
		Items: []entity.SaleItem{
			{ItemID: item.ID, ItemName: item.Name, Quantity: 2, UnitPrice: 3500, LineTotal: 7000},
		},
	}
	require.NoError(t, uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
		return func(ctx context.Context, w domainRepo.WriteTx) error {
			return w.CreateSale(ctx, sale)
		}, nil
	}))

	voidOnce := func() error {
		return uow.Atomic(ctx, func(ctx context.Context, r domainRepo.ReadTx) (domainRepo.WriteFunc, error) {
			current, err := r.SaleByID(ctx, sale.ID)
			if err != nil {
				return nil, err
			}
			require.NotNil(t, current)
			require.Len(t, current.Items, 1)
			return func(ctx context.Context, w domainRepo.WriteTx) error {
				return w.MarkSaleVoided(ctx, current.ID, current.Version, time.Now())
			}, nil
		})
	}
	require.NoError(t, voidOnce())
	assert.ErrorIs(t, voidOnce(), domainRepo.ErrConflict)

	got, err := NewSaleRepository(db).GetByReceiptNumber(ctx, "000001")
	require.NoError(t, err)
	assert.True(t, got.IsVoided())
	assert.NotNil(t, got.VoidedAt)
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(domainRepo.ErrConflict))
	assert.True(t, IsConflict(fmt.Errorf("save: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsConflict(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsConflict(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsConflict(gorm.ErrRecordNotFound))
}
