package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-ledger/internal/domain/entity"
)

// DayStatusChecker answers whether a trading day (YYYY-MM-DD) is closed.
type DayStatusChecker interface {
	IsDayClosed(ctx context.Context, date string) (bool, error)
}

// DayStatusPublisher pushes a committed close or reopen to any cached status
// for a day.
type DayStatusPublisher interface {
	Publish(ctx context.Context, date string, closed bool) error
}

// BusinessDayRepository is the source of truth for day closes
type BusinessDayRepository interface {
	DayStatusChecker
	Get(ctx context.Context, date string) (*entity.BusinessDay, error)
	Close(ctx context.Context, date string, closedBy *string, at time.Time) (*entity.BusinessDay, error)
	Reopen(ctx context.Context, date string) error
}
