package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"gorm.io/gorm"
)

type creditLedgerRepository struct {
	db *gorm.DB
}

// NewCreditLedgerRepository creates a new credit ledger repository
func NewCreditLedgerRepository(db *gorm.DB) domainRepo.CreditLedgerRepository {
	return &creditLedgerRepository{db: db}
}

func (r *creditLedgerRepository) Create(ctx context.Context, entry *entity.CreditLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *creditLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditLedgerEntry, error) {
	var entry entity.CreditLedgerEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *creditLedgerRepository) MarkDeleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.CreditLedgerEntry{}).
		Where("id = ? AND status = ?", id, enum.LedgerEntryActive).
		Updates(map[string]interface{}{
			"status":     enum.LedgerEntryDeleted,
			"deleted_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *creditLedgerRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, includeDeleted bool) ([]entity.CreditLedgerEntry, error) {
	var entries []entity.CreditLedgerEntry

	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if !includeDeleted {
		query = query.Where("status = ?", enum.LedgerEntryActive)
	}

	err := query.Order("created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *creditLedgerRepository) ListActive(ctx context.Context) ([]entity.CreditLedgerEntry, error) {
	var entries []entity.CreditLedgerEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.LedgerEntryActive).
		Find(&entries).Error
	return entries, err
}
