package ledger

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "000001", FormatReceiptNumber(1))
	assert.Equal(t, "012345", FormatReceiptNumber(12345))
	assert.Equal(t, "999999", FormatReceiptNumber(999999))
	assert.Equal(t, "1000000", FormatReceiptNumber(1000000))
}

func TestReceiptDisplayID(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "20240310_143005-S-000001", ReceiptDisplayID(at, "S", 1))
}

func TestErrors_MapToAppErrors(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		err  error
		code int
	}{
		{&ValidationError{}, http.StatusUnprocessableEntity},
		{&DayClosedError{Date: "2024-03-10"}, http.StatusConflict},
		{&InsufficientStockError{ItemID: id, Available: 2, Requested: 3}, http.StatusConflict},
		{&InventoryNotFoundError{ItemID: id}, http.StatusNotFound},
		{&AlreadyVoidedError{SaleID: id}, http.StatusConflict},
		{&NotFoundError{Resource: "sale", ID: id}, http.StatusNotFound},
		{&EntryAlreadyDeletedError{EntryID: id}, http.StatusConflict},
		{&TransactionFailedError{Op: "record sale", Err: errors.New("serialization failure")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			got := apperror.GetAppError(fmt.Errorf("wrapped: %w", tt.err))
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.err.Error(), got.Message)
		})
	}
}

func TestTransactionFailedError_HidesCause(t *testing.T) {
	cause := errors.New("pq: could not serialize access")
	err := &TransactionFailedError{Op: "void sale", Err: cause}

	assert.NotContains(t, err.Error(), "serialize")
	assert.ErrorIs(t, err, cause)
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("items", "must not be empty")
	v.Add("items[0].quantity", "must be greater than zero")
	err := v.OrNil()

	assert.EqualError(t, err, "validation failed: items: must not be empty; items[0].quantity: must be greater than zero")
	assert.Len(t, apperror.GetAppError(err).Errors, 2)
}
