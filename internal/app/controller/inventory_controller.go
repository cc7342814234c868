package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

type InventoryController struct {
	inventoryService service.InventoryService
}

func NewInventoryController(inventoryService service.InventoryService) *InventoryController {
	return &InventoryController{
		inventoryService: inventoryService,
	}
}

type ReceiveItemRequest struct {
	SerialNumber string   `json:"serial_number" binding:"required"`
	VariantSKU   string   `json:"variant_sku" binding:"required"`
	LocationCode *string  `json:"location_code"`
	CostBasis    *float64 `json:"cost_basis" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes"`
}

type AddItemRequest struct {
	VariantID    uint     `json:"variant_id" binding:"required"`
	SerialNumber *string  `json:"serial_number"`
	LocationCode *string  `json:"location_code"`
	CostBasis    *float64 `json:"cost_basis" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes"`
}

type AddBatchRequest struct {
	VariantID    uint     `json:"variant_id" binding:"required"`
	Quantity     int      `json:"quantity" binding:"required,gte=1,lte=500"`
	LocationCode *string  `json:"location_code"`
	CostBasis    *float64 `json:"cost_basis" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes"`
}

type UpdateItemRequest struct {
	SerialNumber *string  `json:"serial_number"`
	LocationCode *string  `json:"location_code"`
	CostBasis    *float64 `json:"cost_basis" binding:"omitempty,gte=0"`
	Notes        *string  `json:"notes"`
}

type MoveItemRequest struct {
	SerialNumber string `json:"serial_number" binding:"required"`
	NewLocation  string `json:"new_location" binding:"required"`
}

// ReceiveItem registers a scanned unit at receiving
// POST /api/v1/inventory/receive
func (ctrl *InventoryController) ReceiveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ReceiveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid receive payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	item, err := ctrl.inventoryService.ReceiveItem(service.ReceiveItemInput{
		SerialNumber: req.SerialNumber,
		VariantSKU:   req.VariantSKU,
		LocationCode: req.LocationCode,
		CostBasis:    req.CostBasis,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSerialExists):
			apperrors.Conflict(c, apperrors.InventorySerialExists, "this serial number is already registered")
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "no variant matches that SKU")
		case errors.Is(err, service.ErrInvalidCostBasis):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "cost basis must not be negative")
		default:
			log.Error("Failed to receive item", err, map[string]interface{}{
				"serial_number": req.SerialNumber,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Inventory item received", map[string]interface{}{
		"item_id": item.ID,
	})
	c.JSON(http.StatusCreated, item)
}

// AddItem creates a unit directly against a variant
// POST /api/v1/inventory
func (ctrl *InventoryController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	item, err := ctrl.inventoryService.AddItem(service.AddItemInput{
		VariantID:    req.VariantID,
		SerialNumber: req.SerialNumber,
		LocationCode: req.LocationCode,
		CostBasis:    req.CostBasis,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
		case errors.Is(err, service.ErrSerialExists):
			apperrors.Conflict(c, apperrors.InventorySerialExists, "this serial number is already registered")
		case errors.Is(err, service.ErrInvalidCostBasis):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "cost basis must not be negative")
		default:
			log.Error("Failed to add item", err, map[string]interface{}{
				"variant_id": req.VariantID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// AddBatch registers a quantity of unserialized units in one shot
// POST /api/v1/inventory/batch
func (ctrl *InventoryController) AddBatch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	items, err := ctrl.inventoryService.AddBatch(service.AddBatchInput{
		VariantID:    req.VariantID,
		Quantity:     req.Quantity,
		LocationCode: req.LocationCode,
		CostBasis:    req.CostBasis,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "quantity must be between 1 and 500")
		case errors.Is(err, service.ErrInvalidCostBasis):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "cost basis must not be negative")
		default:
			log.Error("Failed to add batch", err, map[string]interface{}{
				"variant_id": req.VariantID,
				"quantity":   req.Quantity,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": items, "count": len(items)})
}

// ListItems returns inventory with filters and pagination
// GET /api/v1/inventory
func (ctrl *InventoryController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skip, limit := parsePagination(c)
	filter := repository.InventoryFilter{
		Limit:  limit,
		Offset: skip,
	}
	if idStr := c.Query("variant_id"); idStr != "" {
		id, ok := parseQueryID(c, idStr)
		if !ok {
			return
		}
		filter.VariantID = &id
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := model.InventoryStatus(statusStr)
		filter.Status = &status
	}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}

	items, total, err := ctrl.inventoryService.ListItems(filter)
	if err != nil {
		log.Error("Failed to list inventory items", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  skip,
		"limit": limit,
		"items": items,
	})
}

// GetItem returns one inventory item
// GET /api/v1/inventory/:id
func (ctrl *InventoryController) GetItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.inventoryService.GetItem(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
			return
		}
		log.Error("Failed to fetch inventory item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetItemBySerial returns one inventory item by its serial number
// GET /api/v1/inventory/serial/:serial_number
func (ctrl *InventoryController) GetItemBySerial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	serial := c.Param("serial_number")
	item, err := ctrl.inventoryService.GetItemBySerial(serial)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
			return
		}
		log.Error("Failed to fetch inventory item by serial", err, map[string]interface{}{
			"serial_number": serial,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem edits descriptive fields; status is not accepted here
// PATCH /api/v1/inventory/:id
func (ctrl *InventoryController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	item, err := ctrl.inventoryService.UpdateItem(id, repository.InventoryItemUpdate{
		SerialNumber: req.SerialNumber,
		LocationCode: req.LocationCode,
		CostBasis:    req.CostBasis,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
		case errors.Is(err, service.ErrSerialExists):
			apperrors.Conflict(c, apperrors.InventorySerialExists, "this serial number is already registered")
		case errors.Is(err, service.ErrInvalidCostBasis):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "cost basis must not be negative")
		default:
			log.Error("Failed to update inventory item", err, map[string]interface{}{
				"item_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// Reserve holds an available unit
// POST /api/v1/inventory/:id/reserve
func (ctrl *InventoryController) Reserve(c *gin.Context) {
	ctrl.runTransition(c, ctrl.inventoryService.Reserve)
}

// Sell finalizes a sale
// POST /api/v1/inventory/:id/sell
func (ctrl *InventoryController) Sell(c *gin.Context) {
	ctrl.runTransition(c, ctrl.inventoryService.Sell)
}

// MarkRMA books a customer return
// POST /api/v1/inventory/:id/rma
func (ctrl *InventoryController) MarkRMA(c *gin.Context) {
	ctrl.runTransition(c, ctrl.inventoryService.MarkRMA)
}

// MarkDamaged removes a unit from sale
// POST /api/v1/inventory/:id/damage
func (ctrl *InventoryController) MarkDamaged(c *gin.Context) {
	ctrl.runTransition(c, ctrl.inventoryService.MarkDamaged)
}

// Restock returns a unit to the sellable pool
// POST /api/v1/inventory/:id/restock
func (ctrl *InventoryController) Restock(c *gin.Context) {
	ctrl.runTransition(c, ctrl.inventoryService.Restock)
}

func (ctrl *InventoryController) runTransition(c *gin.Context, transition func(uint) (*model.InventoryItem, error)) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := transition(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
		case errors.Is(err, service.ErrTransitionNotValid):
			apperrors.UnprocessableEntity(c, apperrors.InventoryNotApplicable, "the item is not in a state that allows this transition")
		default:
			log.Error("Inventory transition failed", err, map[string]interface{}{
				"item_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// MoveItem relocates a unit by serial number
// POST /api/v1/inventory/move
func (ctrl *InventoryController) MoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.inventoryService.MoveItem(req.SerialNumber, req.NewLocation)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
			return
		}
		log.Error("Failed to move inventory item", err, map[string]interface{}{
			"serial_number": req.SerialNumber,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Audit looks up stock by SKU or serial number
// GET /api/v1/inventory/audit/:sku_or_serial
func (ctrl *InventoryController) Audit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skuOrSerial := c.Param("sku_or_serial")
	items, err := ctrl.inventoryService.Audit(skuOrSerial)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.InventoryNotFound, "no inventory matches that SKU or serial")
			return
		}
		log.Error("Failed to audit inventory", err, map[string]interface{}{
			"query": skuOrSerial,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// Summary returns per-status counts, optionally per variant
// GET /api/v1/inventory/summary
func (ctrl *InventoryController) Summary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var variantID *uint
	if idStr := c.Query("variant_id"); idStr != "" {
		id, ok := parseQueryID(c, idStr)
		if !ok {
			return
		}
		variantID = &id
	}

	summary, err := ctrl.inventoryService.Summary(c.Request.Context(), variantID)
	if err != nil {
		log.Error("Failed to build inventory summary", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// TotalValue reports the summed cost basis
// GET /api/v1/inventory/value/total
func (ctrl *InventoryController) TotalValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var variantID *uint
	if idStr := c.Query("variant_id"); idStr != "" {
		id, ok := parseQueryID(c, idStr)
		if !ok {
			return
		}
		variantID = &id
	}
	var status *model.InventoryStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := model.InventoryStatus(statusStr)
		status = &s
	}

	total, err := ctrl.inventoryService.TotalValue(variantID, status)
	if err != nil {
		log.Error("Failed to compute inventory value", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_value": total,
		"currency":    "USD",
		"filters": gin.H{
			"variant_id": variantID,
			"status":     status,
		},
	})
}

// DeleteItem removes a unit entirely
// DELETE /api/v1/inventory/:id
func (ctrl *InventoryController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.inventoryService.DeleteItem(id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.InventoryNotFound, "inventory item not found")
			return
		}
		log.Error("Failed to delete inventory item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
