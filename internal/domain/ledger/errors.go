package ledger

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/pkg/apperror"
)

// ValidationError rejects malformed input before any store access.
type ValidationError struct {
	Fields []apperror.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPStatus() int { return http.StatusUnprocessableEntity }

func (e *ValidationError) FieldErrors() []apperror.FieldError { return e.Fields }

// Add records a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, apperror.FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds at least one failure.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DayClosedError rejects a sale on a trading day an operator has closed.
type DayClosedError struct {
	Date string
}

func (e *DayClosedError) Error() string {
	return fmt.Sprintf("business day %s is closed", e.Date)
}

func (e *DayClosedError) HTTPStatus() int { return http.StatusConflict }

// InsufficientStockError aborts a sale that asks for more than is on hand.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: available %d, requested %d", e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) HTTPStatus() int { return http.StatusConflict }

// InventoryNotFoundError aborts a sale or void that references a missing item.
type InventoryNotFoundError struct {
	ItemID uuid.UUID
}

func (e *InventoryNotFoundError) Error() string {
	return fmt.Sprintf("inventory item %s not found", e.ItemID)
}

func (e *InventoryNotFoundError) HTTPStatus() int { return http.StatusNotFound }

// AlreadyVoidedError is returned for a second void of the same sale.
type AlreadyVoidedError struct {
	SaleID uuid.UUID
}

func (e *AlreadyVoidedError) Error() string {
	return fmt.Sprintf("sale %s is already voided", e.SaleID)
}

func (e *AlreadyVoidedError) HTTPStatus() int { return http.StatusConflict }

// NotFoundError reports a missing sale, customer or ledger entry.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// EntryAlreadyDeletedError is returned when deleting a deleted ledger entry.
type EntryAlreadyDeletedError struct {
	EntryID uuid.UUID
}

func (e *EntryAlreadyDeletedError) Error() string {
	return fmt.Sprintf("ledger entry %s is already deleted", e.EntryID)
}

func (e *EntryAlreadyDeletedError) HTTPStatus() int { return http.StatusConflict }

// TransactionFailedError hides store-level failures from callers. Err keeps
// the cause for logs; it is not part of the message.
type TransactionFailedError struct {
	Op  string
	Err error
}

func (e *TransactionFailedError) Error() string {
	return e.Op + ": transaction failed, please retry"
}

func (e *TransactionFailedError) Unwrap() error { return e.Err }

func (e *TransactionFailedError) HTTPStatus() int { return http.StatusServiceUnavailable }
