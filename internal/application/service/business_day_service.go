package service

import (
	"context"
	"time"

	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"go.uber.org/zap"
)

// BusinessDayService opens and closes trading days
type BusinessDayService struct {
	dayRepo repository.BusinessDayRepository
	cache   repository.DayStatusPublisher
}

// NewBusinessDayService creates a new business day service. cache may be nil.
func NewBusinessDayService(dayRepo repository.BusinessDayRepository, cache repository.DayStatusPublisher) *BusinessDayService {
	return &BusinessDayService{dayRepo: dayRepo, cache: cache}
}

// DayStatus is the state of one trading day
type DayStatus struct {
	Date     string     `json:"date"`
	Closed   bool       `json:"closed"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	ClosedBy *string    `json:"closed_by,omitempty"`
}

func parseDay(date string) error {
	if _, err := time.Parse(entity.DateLayout, date); err != nil {
		verr := &ledger.ValidationError{}
		verr.Add("date", "must be formatted as YYYY-MM-DD")
		return verr
	}
	return nil
}

// Status reports whether date is closed
func (s *BusinessDayService) Status(ctx context.Context, date string) (*DayStatus, error) {
	if err := parseDay(date); err != nil {
		return nil, err
	}
	day, err := s.dayRepo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	status := &DayStatus{Date: date, Closed: day.IsClosed()}
	if day.IsClosed() {
		status.ClosedAt = day.ClosedAt
		status.ClosedBy = day.ClosedBy
	}
	return status, nil
}

// CloseDay stops new sales on date. Closing a closed day refreshes who
// closed it and when.
func (s *BusinessDayService) CloseDay(ctx context.Context, date string, closedBy *string) (*DayStatus, error) {
	if err := parseDay(date); err != nil {
		return nil, err
	}
	day, err := s.dayRepo.Close(ctx, date, closedBy, time.Now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, date, true)

	logger.L().Info("business day closed", zap.String("date", date))
	return &DayStatus{Date: date, Closed: true, ClosedAt: day.ClosedAt, ClosedBy: day.ClosedBy}, nil
}

// ReopenDay allows sales on date again
func (s *BusinessDayService) ReopenDay(ctx context.Context, date string) (*DayStatus, error) {
	if err := parseDay(date); err != nil {
		return nil, err
	}
	if err := s.dayRepo.Reopen(ctx, date); err != nil {
		return nil, err
	}
	s.publish(ctx, date, false)

	logger.L().Info("business day reopened", zap.String("date", date))
	return &DayStatus{Date: date}, nil
}

func (s *BusinessDayService) publish(ctx context.Context, date string, closed bool) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Publish(ctx, date, closed); err != nil {
		logger.L().Warn("day status cache update failed", zap.String("date", date), zap.Error(err))
	}
}
