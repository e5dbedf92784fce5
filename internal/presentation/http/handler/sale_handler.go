package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-ledger/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
	location    *time.Location
}

// NewSaleHandler creates a new sale handler. Date filters are read in loc.
func NewSaleHandler(saleService *service.SaleService, loc *time.Location) *SaleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleHandler{saleService: saleService, location: loc}
}

// Create handles recording a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	verr := &ledger.ValidationError{}
	input := &service.RecordSaleInput{
		Items:         make([]service.SaleLineInput, len(req.Items)),
		CustomerLabel: req.CustomerLabel,
		ServiceType:   req.ServiceType,
	}
	for i, line := range req.Items {
		input.Items[i] = service.SaleLineInput{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: cents(verr, fmt.Sprintf("items[%d].unit_price", i), line.UnitPrice),
			UnitCost:  cents(verr, fmt.Sprintf("items[%d].unit_cost", i), line.UnitCost),
		}
	}
	if err := verr.OrNil(); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.saleService.RecordSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", result)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
	}

	if req.Status != "" {
		status, err := enum.ParseSaleStatus(req.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}

	if req.StartDate != "" {
		start, err := time.ParseInLocation(entity.DateLayout, req.StartDate, h.location)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}

	if req.EndDate != "" {
		end, err := time.ParseInLocation(entity.DateLayout, req.EndDate, h.location)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// inclusive of the whole end day
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Void handles voiding a sale
func (h *SaleHandler) Void(c *gin.Context) {
	id, ok := paramID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.VoidSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale voided successfully", sale)
}
