package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one line of a sale. Omit item_id to create the item
// on the fly; name is then required.
type SaleLineRequest struct {
	ItemID    *uuid.UUID      `json:"item_id"`
	Name      string          `json:"name" binding:"max=255"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// RecordSaleRequest represents a sale creation request
type RecordSaleRequest struct {
	Items         []SaleLineRequest `json:"items"`
	CustomerLabel *string           `json:"customer_label" binding:"omitempty,max=255"`
	ServiceType   *string           `json:"service_type" binding:"omitempty,max=100"`
}

// SaleFilterRequest represents sale list filters
type SaleFilterRequest struct {
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
