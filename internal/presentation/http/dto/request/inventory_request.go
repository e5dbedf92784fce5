package request

import "github.com/shopspring/decimal"

// CreateItemRequest represents an inventory item creation request
type CreateItemRequest struct {
	Name      string          `json:"name" binding:"required,max=255"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock" binding:"min=0"`
}

// UpdateItemRequest changes name or prices. Stock cannot be edited here.
type UpdateItemRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=255"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}
