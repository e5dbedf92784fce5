package request

import "github.com/shopspring/decimal"

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Notes *string `json:"notes"`
}

// LedgerEntryRequest records a credit or a payment
type LedgerEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
}

// CloseDayRequest names who closed the day
type CloseDayRequest struct {
	ClosedBy *string `json:"closed_by" binding:"omitempty,max=255"`
}
