// Package memory is an in-process store for inventory and sales. Atomic
// units read snapshots, buffer their writes and commit them under a short
// lock after checking that every record they touch still has the version
// they read.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/pagination"
	"github.com/sangkips/pos-ledger/pkg/retry"
)

// Store keeps inventory, sales and receipt counters in maps and implements
// repository.UnitOfWork over them.
type Store struct {
	mu sync.RWMutex

	items    map[uuid.UUID]entity.InventoryItem
	sales    map[uuid.UUID]entity.Sale
	receipts map[string]uuid.UUID
	counters map[string]entity.ReceiptCounter

	policy    retry.Policy
	conflicts atomic.Int64
}

var (
	_ repository.UnitOfWork          = (*Store)(nil)
	_ repository.InventoryRepository = inventoryView{}
	_ repository.SaleRepository      = saleView{}
)

// New creates a new empty store whose atomic units retry conflicts per policy
func New(policy retry.Policy) *Store {
	return &Store{
		items:    make(map[uuid.UUID]entity.InventoryItem),
		sales:    make(map[uuid.UUID]entity.Sale),
		receipts: make(map[string]uuid.UUID),
		counters: make(map[string]entity.ReceiptCounter),
		policy:   policy,
	}
}

// Conflicts returns how many commits were rejected for stale versions.
func (s *Store) Conflicts() int64 {
	return s.conflicts.Load()
}

// Atomic runs fn and commits its buffered writes, retrying on ErrConflict.
func (s *Store) Atomic(ctx context.Context, fn repository.ReadFunc) error {
	return retry.Do(ctx, s.policy, isConflict, func(ctx context.Context, attempt int) error {
		write, err := fn(ctx, &readTx{s: s})
		if err != nil {
			return err
		}
		if write == nil {
			return nil
		}

		w := &writeTx{}
		if err := write(ctx, w); err != nil {
			return err
		}
		return s.commit(w)
	})
}

func isConflict(err error) bool {
	return errors.Is(err, repository.ErrConflict)
}

// commit validates every buffered write against current versions and
// applies all of them, or none.
func (s *Store) commit(w *writeTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(w); err != nil {
		s.conflicts.Add(1)
		return err
	}

	now := time.Now()
	for _, item := range w.newItems {
		item.CreatedAt, item.UpdatedAt = now, now
		s.items[item.ID] = item
	}
	for _, op := range w.stock {
		item := s.items[op.id]
		item.Stock = op.stock
		item.Version++
		item.UpdatedAt = now
		s.items[op.id] = item
	}
	for _, op := range w.counters {
		c := s.counters[op.name]
		c.Name = op.name
		c.CurrentValue = op.value
		c.Version = op.version + 1
		c.UpdatedAt = now
		s.counters[op.name] = c
	}
	for _, sale := range w.sales {
		if sale.CreatedAt.IsZero() {
			sale.CreatedAt = now
		}
		sale.UpdatedAt = now
		s.sales[sale.ID] = sale
		s.receipts[sale.ReceiptNumber] = sale.ID
	}
	for _, op := range w.voids {
		sale := s.sales[op.id]
		sale.Status = enum.SaleStatusVoided
		at := op.at
		sale.VoidedAt = &at
		sale.Version++
		sale.UpdatedAt = now
		s.sales[op.id] = sale
	}
	return nil
}

func (s *Store) validate(w *writeTx) error {
	for _, item := range w.newItems {
		if _, exists := s.items[item.ID]; exists {
			return repository.ErrConflict
		}
	}
	for _, op := range w.stock {
		item, ok := s.items[op.id]
		if !ok || item.Version != op.version {
			return repository.ErrConflict
		}
	}
	for _, op := range w.counters {
		c, ok := s.counters[op.name]
		if op.version == 0 && ok {
			return repository.ErrConflict
		}
		if op.version != 0 && (!ok || c.Version != op.version) {
			return repository.ErrConflict
		}
	}
	for _, sale := range w.sales {
		if _, exists := s.sales[sale.ID]; exists {
			return repository.ErrConflict
		}
		if _, taken := s.receipts[sale.ReceiptNumber]; taken {
			return repository.ErrConflict
		}
	}
	for _, op := range w.voids {
		sale, ok := s.sales[op.id]
		if !ok || sale.Version != op.version || sale.Status != enum.SaleStatusActive {
			return repository.ErrConflict
		}
	}
	return nil
}

type readTx struct {
	s *Store
}

func (r *readTx) InventoryByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		if item, ok := r.s.items[id]; ok {
			out[id] = &item
		}
	}
	return out, nil
}

func (r *readTx) SaleByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *readTx) Counter(_ context.Context, name string) (*entity.ReceiptCounter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.counters[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type stockOp struct {
	id      uuid.UUID
	version int64
	stock   int
}

type counterOp struct {
	name    string
	version int64
	value   int64
}

type voidOp struct {
	id      uuid.UUID
	version int64
	at      time.Time
}

type writeTx struct {
	newItems []entity.InventoryItem
	stock    []stockOp
	counters []counterOp
	sales    []entity.Sale
	voids    []voidOp
}

func (w *writeTx) CreateInventoryItem(_ context.Context, item *entity.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Version == 0 {
		item.Version = 1
	}
	if item.Stock < 0 {
		return fmt.Errorf("item %s: stock must not be negative", item.ID)
	}
	w.newItems = append(w.newItems, *item)
	return nil
}

func (w *writeTx) SetStock(_ context.Context, itemID uuid.UUID, expectedVersion int64, stock int) error {
	if stock < 0 {
		return fmt.Errorf("item %s: stock must not be negative", itemID)
	}
	w.stock = append(w.stock, stockOp{id: itemID, version: expectedVersion, stock: stock})
	return nil
}

func (w *writeTx) SaveCounter(_ context.Context, name string, expectedVersion int64, value int64) error {
	w.counters = append(w.counters, counterOp{name: name, version: expectedVersion, value: value})
	return nil
}

func (w *writeTx) CreateSale(_ context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.Version == 0 {
		sale.Version = 1
	}
	for i := range sale.Items {
		if sale.Items[i].ID == uuid.Nil {
			sale.Items[i].ID = uuid.New()
		}
		sale.Items[i].SaleID = sale.ID
	}
	w.sales = append(w.sales, *cloneSale(*sale))
	return nil
}

func (w *writeTx) MarkSaleVoided(_ context.Context, saleID uuid.UUID, expectedVersion int64, at time.Time) error {
	w.voids = append(w.voids, voidOp{id: saleID, version: expectedVersion, at: at})
	return nil
}

func cloneSale(s entity.Sale) *entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s
}

// Inventory returns the store's inventory records as a repository.
func (s *Store) Inventory() repository.InventoryRepository {
	return inventoryView{s: s}
}

// Sales returns the store's committed sales as a repository.
func (s *Store) Sales() repository.SaleRepository {
	return saleView{s: s}
}

type inventoryView struct {
	s *Store
}

func (v inventoryView) Create(_ context.Context, item *entity.InventoryItem) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if err := item.BeforeCreate(nil); err != nil {
		return err
	}
	if _, exists := v.s.items[item.ID]; exists {
		return fmt.Errorf("inventory item %s already exists", item.ID)
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	v.s.items[item.ID] = *item
	return nil
}

func (v inventoryView) GetByID(_ context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	item, ok := v.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (v inventoryView) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := make([]entity.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := v.s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (v inventoryView) UpdateDetails(_ context.Context, item *entity.InventoryItem) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	current, ok := v.s.items[item.ID]
	if !ok {
		return fmt.Errorf("inventory item %s not found", item.ID)
	}
	current.Name = item.Name
	current.UnitCost = item.UnitCost
	current.UnitPrice = item.UnitPrice
	current.Version++
	current.UpdatedAt = time.Now()
	v.s.items[item.ID] = current
	return nil
}

func (v inventoryView) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryItem, int64, error) {
	v.s.mu.RLock()
	matched := make([]entity.InventoryItem, 0, len(v.s.items))
	needle := strings.ToLower(search)
	for _, item := range v.s.items {
		if needle == "" || strings.Contains(strings.ToLower(item.Name), needle) {
			matched = append(matched, item)
		}
	}
	v.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	params.Validate()
	return page(matched, params), int64(len(matched)), nil
}

type saleView struct {
	s *Store
}

func (v saleView) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	sale, ok := v.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (v saleView) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error) {
	v.s.mu.RLock()
	id, ok := v.s.receipts[receiptNumber]
	v.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return v.GetByID(ctx, id)
}

func (v saleView) List(_ context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	v.s.mu.RLock()
	matched := make([]entity.Sale, 0, len(v.s.sales))
	for _, sale := range v.s.sales {
		if params.Status != nil && sale.Status != *params.Status {
			continue
		}
		if params.StartDate != nil && sale.CreatedAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && !sale.CreatedAt.Before(*params.EndDate) {
			continue
		}
		matched = append(matched, *cloneSale(sale))
	}
	v.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ReceiptSeq > matched[j].ReceiptSeq })

	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()
	return page(matched, params.Pagination), int64(len(matched)), nil
}

func page[T any](all []T, params *pagination.PaginationParams) []T {
	start := params.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
