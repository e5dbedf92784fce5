package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pos-ledger/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-ledger/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type businessDayRepository struct {
	db *gorm.DB
}

// NewBusinessDayRepository creates a new business day repository
func NewBusinessDayRepository(db *gorm.DB) domainRepo.BusinessDayRepository {
	return &businessDayRepository{db: db}
}

func (r *businessDayRepository) Get(ctx context.Context, date string) (*entity.BusinessDay, error) {
	var day entity.BusinessDay
	err := r.db.WithContext(ctx).First(&day, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *businessDayRepository) IsDayClosed(ctx context.Context, date string) (bool, error) {
	day, err := r.Get(ctx, date)
	if err != nil {
		return false, err
	}
	return day.IsClosed(), nil
}

func (r *businessDayRepository) Close(ctx context.Context, date string, closedBy *string, at time.Time) (*entity.BusinessDay, error) {
	day := &entity.BusinessDay{
		Date:     date,
		ClosedAt: &at,
		ClosedBy: closedBy,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"closed_at", "closed_by", "updated_at"}),
	}).Create(day).Error
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (r *businessDayRepository) Reopen(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).
		Model(&entity.BusinessDay{}).
		Where("date = ?", date).
		Updates(map[string]interface{}{
			"closed_at": nil,
			"closed_by": nil,
		}).Error
}
