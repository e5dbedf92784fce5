package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/pagination"
	"github.com/sangkips/pos-ledger/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func seedItem(t *testing.T, s *Store, name string, stock int) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{Name: name, UnitPrice: 5000, Stock: stock}
	require.NoError(t, s.Inventory().Create(context.Background(), item))
	return item
}

func TestAtomic_AppliesWrites(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(3))
	item := seedItem(t, s, "Rice", 10)

	err := s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		items, err := r.InventoryByIDs(ctx, []uuid.UUID{item.ID})
		if err != nil {
			return nil, err
		}
		current := items[item.ID]
		return func(ctx context.Context, w repository.WriteTx) error {
			return w.SetStock(ctx, current.ID, current.Version, current.Stock-4)
		}, nil
	})
	require.NoError(t, err)

	got, err := s.Inventory().GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)
	assert.Equal(t, int64(2), got.Version)
}

func TestAtomic_ReadErrorIsNotRetried(t *testing.T) {
	s := New(testPolicy(5))
	boom := errors.New("boom")
	calls := 0

	err := s.Atomic(context.Background(), func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		calls++
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestAtomic_StaleVersionIsRetried(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(5))
	item := seedItem(t, s, "Oil", 10)
	calls := 0

	err := s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		calls++
		items, _ := r.InventoryByIDs(ctx, []uuid.UUID{item.ID})
		current := items[item.ID]
		if calls == 1 {
			// Another writer commits between this read and the write.
			require.NoError(t, s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
				return func(ctx context.Context, w repository.WriteTx) error {
					return w.SetStock(ctx, current.ID, current.Version, current.Stock-1)
				}, nil
			}))
		}
		return func(ctx context.Context, w repository.WriteTx) error {
			return w.SetStock(ctx, current.ID, current.Version, current.Stock-2)
		}, nil
	})
	require.NoError(t, err)

	got, _ := s.Inventory().GetByID(ctx, item.ID)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(1), s.Conflicts())
}

func TestAtomic_ExhaustsBudget(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(3))
	item := seedItem(t, s, "Salt", 10)

	err := s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		return func(ctx context.Context, w repository.WriteTx) error {
			return w.SetStock(ctx, item.ID, 99, 1)
		}, nil
	})

	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, int64(3), s.Conflicts())
}

func TestAtomic_FailedCommitAppliesNothing(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(1))
	item := seedItem(t, s, "Sugar", 10)

	err := s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		return func(ctx context.Context, w repository.WriteTx) error {
			if err := w.SaveCounter(ctx, "saleReceipt", 0, 1); err != nil {
				return err
			}
			if err := w.SetStock(ctx, item.ID, item.Version, 5); err != nil {
				return err
			}
			return w.SetStock(ctx, uuid.New(), 1, 5)
		}, nil
	})
	require.Error(t, err)

	counter, _ := (&readTx{s: s}).Counter(ctx, "saleReceipt")
	assert.Nil(t, counter)
	got, _ := s.Inventory().GetByID(ctx, item.ID)
	assert.Equal(t, 10, got.Stock)
}

func TestWriteTx_RejectsNegativeStock(t *testing.T) {
	w := &writeTx{}
	assert.Error(t, w.SetStock(context.Background(), uuid.New(), 1, -1))
	assert.Error(t, w.CreateInventoryItem(context.Background(), &entity.InventoryItem{Stock: -3}))
}

func TestAtomic_CounterInsertRace(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(20))

	const workers = 16
	var wg sync.WaitGroup
	values := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var reserved int64
			err := s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
				c, err := r.Counter(ctx, "saleReceipt")
				if err != nil {
					return nil, err
				}
				var version, current int64
				if c != nil {
					version, current = c.Version, c.CurrentValue
				}
				next := current + 1
				return func(ctx context.Context, w repository.WriteTx) error {
					reserved = next
					return w.SaveCounter(ctx, "saleReceipt", version, next)
				}, nil
			})
			if assert.NoError(t, err) {
				values <- reserved
			}
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		assert.False(t, seen[v], "value %d handed out twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers)

	c, _ := (&readTx{s: s}).Counter(ctx, "saleReceipt")
	assert.Equal(t, int64(workers), c.CurrentValue)
}

func TestSales_CreateVoidAndList(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(2))
	item := seedItem(t, s, "Soap", 3)

	sale := &entity.Sale{
		ReceiptSeq:    1,
		ReceiptNumber: "000001",
		Total:         5000,
		Status:        enum.SaleStatusActive,
		Items:         []entity.SaleItem{{ItemID: item.ID, ItemName: item.Name, Quantity: 1, UnitPrice: 5000, LineTotal: 5000}},
	}
	require.NoError(t, s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		return func(ctx context.Context, w repository.WriteTx) error {
			return w.CreateSale(ctx, sale)
		}, nil
	}))

	byReceipt, err := s.Sales().GetByReceiptNumber(ctx, "000001")
	require.NoError(t, err)
	require.NotNil(t, byReceipt)
	assert.Equal(t, sale.ID, byReceipt.ID)
	require.Len(t, byReceipt.Items, 1)
	assert.Equal(t, sale.ID, byReceipt.Items[0].SaleID)

	require.NoError(t, s.Atomic(ctx, func(ctx context.Context, r repository.ReadTx) (repository.WriteFunc, error) {
		current, err := r.SaleByID(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, w repository.WriteTx) error {
			return w.MarkSaleVoided(ctx, current.ID, current.Version, time.Now())
		}, nil
	}))

	voided := enum.SaleStatusVoided
	list, total, err := s.Sales().List(ctx, &repository.SaleFilterParams{Status: &voided})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].VoidedAt)

	missing, err := s.Sales().GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInventory_ListAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := New(testPolicy(1))
	seedItem(t, s, "Brown Rice", 1)
	seedItem(t, s, "White Rice", 1)
	beans := seedItem(t, s, "Beans", 1)

	params := &pagination.PaginationParams{Page: 1, PerPage: 10}
	items, total, err := s.Inventory().List(ctx, params, "rice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Brown Rice", items[0].Name)

	beans.Name = "Black Beans"
	beans.UnitPrice = 7000
	require.NoError(t, s.Inventory().UpdateDetails(ctx, beans))

	got, _ := s.Inventory().GetByID(ctx, beans.ID)
	assert.Equal(t, "Black Beans", got.Name)
	assert.Equal(t, int64(7000), got.UnitPrice)
	assert.Equal(t, int64(2), got.Version)
}
