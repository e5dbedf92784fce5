package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/pkg/money"
	"gorm.io/gorm"
)

// InventoryItem is a stock-keeping record. Stock only changes through a sale
// or a void; Version is bumped by every conditional write.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UnitCost  int64     `gorm:"not null" json:"-"` // Stored in cents
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	Stock     int       `gorm:"not null;check:stock >= 0" json:"stock"`
	Version   int64     `gorm:"not null" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON renders the cent columns as decimal amounts
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type Alias InventoryItem
	return json.Marshal(&struct {
		Alias
		UnitCost  json.Number `json:"unit_cost"`
		UnitPrice json.Number `json:"unit_price"`
	}{
		Alias:     Alias(i),
		UnitCost:  money.JSON(i.UnitCost),
		UnitPrice: money.JSON(i.UnitPrice),
	})
}

// BeforeCreate assigns an ID and the initial version
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Version == 0 {
		i.Version = 1
	}
	return nil
}

// TableName returns the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}
