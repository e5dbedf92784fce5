package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
)

// LedgerHandler handles customer credit ledger HTTP requests
type LedgerHandler struct {
	ledgerService *service.CreditLedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.CreditLedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

type recordFunc func(context.Context, *service.LedgerEntryInput) (*entity.CreditLedgerEntry, error)

func (h *LedgerHandler) record(c *gin.Context, record recordFunc, message string) {
	customerID, ok := paramID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	verr := &ledger.ValidationError{}
	amount := cents(verr, "amount", req.Amount)
	if err := verr.OrNil(); err != nil {
		response.Error(c, err)
		return
	}

	entry, err := record(c.Request.Context(), &service.LedgerEntryInput{
		CustomerID:  customerID,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, entry)
}

// RecordCredit handles adding credit to a customer's tab
func (h *LedgerHandler) RecordCredit(c *gin.Context) {
	h.record(c, h.ledgerService.RecordCredit, "Credit recorded successfully")
}

// RecordPayment handles a customer paying down their tab
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	h.record(c, h.ledgerService.RecordPayment, "Payment recorded successfully")
}

// ListEntries handles listing a customer's ledger
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	customerID, ok := paramID(c, "id", "customer")
	if !ok {
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), customerID, c.Query("include_deleted") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", entries)
}

// Balance handles projecting one customer's balance
func (h *LedgerHandler) Balance(c *gin.Context) {
	customerID, ok := paramID(c, "id", "customer")
	if !ok {
		return
	}

	balance, err := h.ledgerService.CustomerBalance(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", balance)
}

// Balances handles projecting every customer's balance
func (h *LedgerHandler) Balances(c *gin.Context) {
	balances, err := h.ledgerService.Balances(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balances retrieved successfully", balances)
}

// DeleteEntry handles flagging a ledger entry as deleted
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	id, ok := paramID(c, "entryId", "entry")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Entry deleted successfully", nil)
}
