package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
)

// BusinessDayHandler handles trading day HTTP requests
type BusinessDayHandler struct {
	dayService *service.BusinessDayService
}

// NewBusinessDayHandler creates a new business day handler
func NewBusinessDayHandler(dayService *service.BusinessDayService) *BusinessDayHandler {
	return &BusinessDayHandler{dayService: dayService}
}

// Status handles reading whether a day is closed
func (h *BusinessDayHandler) Status(c *gin.Context) {
	status, err := h.dayService.Status(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day status retrieved successfully", status)
}

// Close handles closing a day for sales
func (h *BusinessDayHandler) Close(c *gin.Context) {
	var req request.CloseDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	status, err := h.dayService.CloseDay(c.Request.Context(), c.Param("date"), req.ClosedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day closed successfully", status)
}

// Reopen handles reopening a closed day
func (h *BusinessDayHandler) Reopen(c *gin.Context) {
	status, err := h.dayService.ReopenDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day reopened successfully", status)
}
