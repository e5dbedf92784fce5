package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_ListAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(newTestDB(t))

	for _, name := range []string{"White Rice", "Brown Rice", "Cooking Oil"} {
		require.NoError(t, repo.Create(ctx, &entity.InventoryItem{Name: name, UnitPrice: 1000, Stock: 1}))
	}

	items, total, err := repo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "RICE")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Brown Rice", items[0].Name)

	item := items[0]
	item.UnitPrice = 1500
	require.NoError(t, repo.UpdateDetails(ctx, &item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.UnitPrice)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 1, got.Stock)
}

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))

	phone := "09171234567"
	maria := &entity.Customer{Name: "Maria", Phone: &phone}
	require.NoError(t, repo.Create(ctx, maria))
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Jose"}))

	got, err := repo.GetByID(ctx, maria.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)

	list, total, err := repo.List(ctx, &pagination.PaginationParams{}, "0917")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, maria.ID, list[0].ID)
}

func TestCreditLedgerRepository_MarkDeleted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	customer := &entity.Customer{Name: "Ana"}
	require.NoError(t, NewCustomerRepository(db).Create(ctx, customer))

	repo := NewCreditLedgerRepository(db)
	credit := &entity.CreditLedgerEntry{CustomerID: customer.ID, Kind: enum.LedgerEntryCredit, Amount: 50000}
	payment := &entity.CreditLedgerEntry{CustomerID: customer.ID, Kind: enum.LedgerEntryPayment, Amount: 20000}
	require.NoError(t, repo.Create(ctx, credit))
	require.NoError(t, repo.Create(ctx, payment))

	ok, err := repo.MarkDeleted(ctx, credit.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkDeleted(ctx, credit.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := repo.ListByCustomer(ctx, customer.ID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, payment.ID, active[0].ID)

	all, err := repo.ListByCustomer(ctx, customer.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	everyone, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, everyone, 1)
}

func TestBusinessDayRepository_CloseAndReopen(t *testing.T) {
	ctx := context.Background()
	repo := NewBusinessDayRepository(newTestDB(t))

	closed, err := repo.IsDayClosed(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.False(t, closed)

	by := "manager"
	_, err = repo.Close(ctx, "2024-03-01", &by, time.Now())
	require.NoError(t, err)
	_, err = repo.Close(ctx, "2024-03-01", nil, time.Now())
	require.NoError(t, err, "closing twice is an upsert")

	closed, err = repo.IsDayClosed(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, closed)

	require.NoError(t, repo.Reopen(ctx, "2024-03-01"))
	closed, err = repo.IsDayClosed(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestIdempotencyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewIdempotencyRepository(newTestDB(t))
	const endpoint = "POST /api/v1/sales"

	first := &entity.IdempotencyKey{Key: "abc", Endpoint: endpoint, ExpiresAt: time.Now().Add(time.Minute)}
	ok, err := repo.Reserve(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "abc", Endpoint: endpoint, ExpiresAt: time.Now().Add(time.Minute)})
	require.NoError(t, err)
	assert.False(t, ok, "a key is reserved once per endpoint")

	got, err := repo.GetByKey(ctx, "abc", endpoint)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPending())

	require.NoError(t, repo.Complete(ctx, first.ID, 201, `{"success":true}`, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Release(ctx, first.ID), "completed keys are not released")
	got, err = repo.GetByKey(ctx, "abc", endpoint)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)
	assert.False(t, got.IsPending())

	other, err := repo.GetByKey(ctx, "abc", "POST /api/v1/sales/void")
	require.NoError(t, err)
	assert.Nil(t, other)

	failed := &entity.IdempotencyKey{Key: "retry", Endpoint: endpoint, ExpiresAt: time.Now().Add(time.Minute)}
	ok, err = repo.Reserve(ctx, failed)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, repo.Release(ctx, failed.ID))
	gone, err := repo.GetByKey(ctx, "retry", endpoint)
	require.NoError(t, err)
	assert.Nil(t, gone)

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "old", Endpoint: endpoint, ExpiresAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, repo.DeleteExpired(ctx))
	gone, err = repo.GetByKey(ctx, "old", endpoint)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
