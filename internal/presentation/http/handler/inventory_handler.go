package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/application/service"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles listing inventory items
func (h *InventoryHandler) List(c *gin.Context) {
	result, err := h.inventoryService.ListItems(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Inventory retrieved successfully", result)
}

// Create handles creating an inventory item
func (h *InventoryHandler) Create(c *gin.Context) {
	var req request.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	verr := &ledger.ValidationError{}
	input := &service.CreateItemInput{
		Name:      req.Name,
		UnitCost:  cents(verr, "unit_cost", req.UnitCost),
		UnitPrice: cents(verr, "unit_price", req.UnitPrice),
		Stock:     req.Stock,
	}
	if err := verr.OrNil(); err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Get handles getting a single inventory item
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Update handles changing an item's name or prices
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	verr := &ledger.ValidationError{}
	input := &service.UpdateItemInput{ID: id, Name: req.Name}
	if req.UnitCost != nil {
		v := cents(verr, "unit_cost", *req.UnitCost)
		input.UnitCost = &v
	}
	if req.UnitPrice != nil {
		v := cents(verr, "unit_price", *req.UnitPrice)
		input.UnitPrice = &v
	}
	if err := verr.OrNil(); err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}
