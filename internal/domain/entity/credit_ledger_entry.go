package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/pkg/money"
	"gorm.io/gorm"
)

// CreditLedgerEntry is an append-only credit or payment line for a customer.
// Deletion only flips Status.
type CreditLedgerEntry struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	Kind        enum.LedgerEntryKind   `gorm:"not null" json:"kind"`
	Amount      int64                  `gorm:"not null" json:"-"` // Stored in cents, always > 0
	Description *string                `gorm:"type:text" json:"description,omitempty"`
	Status      enum.LedgerEntryStatus `gorm:"not null;index" json:"status"`
	CreatedAt   time.Time              `gorm:"index" json:"created_at"`
	DeletedAt   *time.Time             `json:"deleted_at,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e CreditLedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias CreditLedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount json.Number `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: money.JSON(e.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new entry
func (e *CreditLedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditLedgerEntry model
func (CreditLedgerEntry) TableName() string {
	return "credit_ledger_entries"
}

// IsActive reports whether the entry counts toward balances
func (e *CreditLedgerEntry) IsActive() bool {
	return e.Status == enum.LedgerEntryActive
}
