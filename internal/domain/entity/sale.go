package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/pkg/money"
	"gorm.io/gorm"
)

// Sale is a committed sale. Rows are never deleted; Status moves from
// active to voided once.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptSeq    int64           `gorm:"not null;uniqueIndex" json:"receipt_seq"`
	ReceiptNumber string          `gorm:"size:32;not null;uniqueIndex" json:"receipt_number"`
	Total         int64           `gorm:"not null" json:"-"` // Stored in cents
	Status        enum.SaleStatus `gorm:"not null;index" json:"status"`
	CustomerLabel *string         `gorm:"size:255" json:"customer_label,omitempty"`
	ServiceType   *string         `gorm:"size:100" json:"service_type,omitempty"`
	Version       int64           `gorm:"not null" json:"-"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Total json.Number `json:"total"`
	}{
		Alias: Alias(s),
		Total: money.JSON(s.Total),
	})
}

// BeforeCreate generates a UUID and initial version before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// IsVoided reports whether the sale has been voided
func (s *Sale) IsVoided() bool {
	return s.Status == enum.SaleStatusVoided
}

// QuantitiesByItem sums line quantities per inventory item.
func (s *Sale) QuantitiesByItem() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(s.Items))
	for _, item := range s.Items {
		out[item.ItemID] += item.Quantity
	}
	return out
}

// SaleItem is one line of a sale. ItemID always points at an inventory
// record; lines that created their item carry the freshly assigned ID.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName  string    `gorm:"size:255;not null" json:"item_name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	LineTotal int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice json.Number `json:"unit_price"`
		LineTotal json.Number `json:"line_total"`
	}{
		Alias:     Alias(si),
		UnitPrice: money.JSON(si.UnitPrice),
		LineTotal: money.JSON(si.LineTotal),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
