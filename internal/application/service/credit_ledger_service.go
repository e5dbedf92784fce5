package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"go.uber.org/zap"
)

// CreditLedgerService appends credit and payment entries for customers and
// derives balances from them on demand. Balances are never stored.
type CreditLedgerService struct {
	ledgerRepo   repository.CreditLedgerRepository
	customerRepo repository.CustomerRepository
}

// NewCreditLedgerService creates a new credit ledger service
func NewCreditLedgerService(ledgerRepo repository.CreditLedgerRepository, customerRepo repository.CustomerRepository) *CreditLedgerService {
	return &CreditLedgerService{ledgerRepo: ledgerRepo, customerRepo: customerRepo}
}

// LedgerEntryInput represents a credit or payment to record
type LedgerEntryInput struct {
	CustomerID  uuid.UUID
	Amount      int64
	Description *string
}

// RecordCredit records an amount the customer owes
func (s *CreditLedgerService) RecordCredit(ctx context.Context, input *LedgerEntryInput) (*entity.CreditLedgerEntry, error) {
	return s.record(ctx, enum.LedgerEntryCredit, input)
}

// RecordPayment records an amount the customer paid back
func (s *CreditLedgerService) RecordPayment(ctx context.Context, input *LedgerEntryInput) (*entity.CreditLedgerEntry, error) {
	return s.record(ctx, enum.LedgerEntryPayment, input)
}

func (s *CreditLedgerService) record(ctx context.Context, kind enum.LedgerEntryKind, input *LedgerEntryInput) (*entity.CreditLedgerEntry, error) {
	if input.Amount <= 0 {
		verr := &ledger.ValidationError{}
		verr.Add("amount", "must be greater than zero")
		return nil, verr
	}
	if err := s.requireCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	entry := &entity.CreditLedgerEntry{
		CustomerID:  input.CustomerID,
		Kind:        kind,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      enum.LedgerEntryActive,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	logger.L().Info("ledger entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("customer_id", entry.CustomerID.String()),
		zap.String("kind", kind.String()),
		zap.Int64("amount_cents", entry.Amount),
	)
	return entry, nil
}

// DeleteEntry flags an entry as deleted so it no longer counts toward the
// balance. The row itself is kept.
func (s *CreditLedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return &ledger.NotFoundError{Resource: "ledger entry", ID: id}
	}
	if !entry.IsActive() {
		return &ledger.EntryAlreadyDeletedError{EntryID: id}
	}

	ok, err := s.ledgerRepo.MarkDeleted(ctx, id, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		// deleted concurrently
		return &ledger.EntryAlreadyDeletedError{EntryID: id}
	}
	return nil
}

// ListEntries lists a customer's entries, oldest first
func (s *CreditLedgerService) ListEntries(ctx context.Context, customerID uuid.UUID, includeDeleted bool) ([]entity.CreditLedgerEntry, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByCustomer(ctx, customerID, includeDeleted)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.CreditLedgerEntry{}
	}
	return entries, nil
}

// CustomerBalance projects one customer's entries into a balance
func (s *CreditLedgerService) CustomerBalance(ctx context.Context, customerID uuid.UUID) (ledger.CustomerBalance, error) {
	entries, err := s.ListEntries(ctx, customerID, false)
	if err != nil {
		return ledger.CustomerBalance{}, err
	}
	return ledger.Project(entries)[customerID], nil
}

// Balances projects every active entry into per-customer balances
func (s *CreditLedgerService) Balances(ctx context.Context) (map[uuid.UUID]ledger.CustomerBalance, error) {
	entries, err := s.ledgerRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Project(entries), nil
}

func (s *CreditLedgerService) requireCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return &ledger.NotFoundError{Resource: "customer", ID: id}
	}
	return nil
}
