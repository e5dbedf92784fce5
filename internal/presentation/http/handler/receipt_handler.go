package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt printing requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Print handles printing (or reprinting) a sale's receipt
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}

	printed, err := h.receiptService.PrintSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", printed)
}

// Status handles reporting the printer status
func (h *ReceiptHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.receiptService.Status(c.Request.Context()))
}
