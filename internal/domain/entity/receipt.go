package entity

import "time"

// ReceiptCounter holds the last value handed out for a named sequence.
// CurrentValue never decreases.
type ReceiptCounter struct {
	Name         string    `gorm:"size:64;primaryKey" json:"name"`
	CurrentValue int64     `gorm:"not null" json:"current_value"`
	Version      int64     `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the ReceiptCounter model
func (ReceiptCounter) TableName() string {
	return "receipt_counters"
}
