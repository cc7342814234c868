package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
	"github.com/usav/inventory-backend/pkg/sku"
)

type VariantController struct {
	variantService service.VariantService
}

func NewVariantController(variantService service.VariantService) *VariantController {
	return &VariantController{
		variantService: variantService,
	}
}

type CreateVariantRequest struct {
	IdentityID    uint               `json:"identity_id" binding:"required"`
	ColorCode     *string            `json:"color_code"`
	ConditionCode *sku.ConditionCode `json:"condition_code"`
	Price         *float64           `json:"price" binding:"omitempty,gte=0"`
}

type SetSyncStatusRequest struct {
	SyncStatus model.ZohoSyncStatus `json:"sync_status" binding:"required"`
}

type UpdateVariantRequest struct {
	Price          *float64              `json:"price" binding:"omitempty,gte=0"`
	ExternalItemID *string               `json:"external_item_id"`
	IsActive       *bool                 `json:"is_active"`
	SyncStatus     *model.ZohoSyncStatus `json:"sync_status"`
}

// CreateVariant composes a sellable SKU from an identity
// POST /api/v1/variants
func (ctrl *VariantController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid variant payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variant, err := ctrl.variantService.CreateVariant(service.CreateVariantInput{
		IdentityID:    req.IdentityID,
		ColorCode:     req.ColorCode,
		ConditionCode: req.ConditionCode,
		Price:         req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityNotFound):
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
		case errors.Is(err, service.ErrInvalidConditionCode):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "condition code must be N or R")
		case errors.Is(err, service.ErrVariantExists):
			apperrors.Conflict(c, apperrors.VariantAlreadyExists, "a variant with this color and condition already exists")
		default:
			log.Error("Failed to create variant", err, map[string]interface{}{
				"identity_id": req.IdentityID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Variant created", map[string]interface{}{
		"variant_id": variant.ID,
		"full_sku":   variant.FullSKU,
	})
	c.JSON(http.StatusCreated, variant)
}

// ListVariants returns variants with filters and pagination
// GET /api/v1/variants
func (ctrl *VariantController) ListVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skip, limit := parsePagination(c)
	filter := repository.VariantFilter{
		IncludeInactive: c.Query("include_inactive") == "true",
		Limit:           limit,
		Offset:          skip,
	}
	if idStr := c.Query("identity_id"); idStr != "" {
		id, ok := parseQueryID(c, idStr)
		if !ok {
			return
		}
		filter.IdentityID = &id
	}
	if statusStr := c.Query("sync_status"); statusStr != "" {
		status := model.ZohoSyncStatus(statusStr)
		filter.SyncStatus = &status
	}

	variants, total, err := ctrl.variantService.ListVariants(filter)
	if err != nil {
		log.Error("Failed to list variants", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  skip,
		"limit": limit,
		"items": variants,
	})
}

// GetVariant returns one variant by id
// GET /api/v1/variants/:id
func (ctrl *VariantController) GetVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	variant, err := ctrl.variantService.GetVariant(id)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to fetch variant", err, map[string]interface{}{
			"variant_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, variant)
}

// GetVariantBySKU resolves a variant from its full SKU
// GET /api/v1/variants/sku/:full_sku
func (ctrl *VariantController) GetVariantBySKU(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fullSKU := c.Param("full_sku")
	variant, err := ctrl.variantService.GetVariantBySKU(fullSKU)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to fetch variant by SKU", err, map[string]interface{}{
			"full_sku": fullSKU,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, variant)
}

// GetVariantByExternalItemID resolves a variant from the id assigned by
// the external catalog
// GET /api/v1/variants/external/:external_item_id
func (ctrl *VariantController) GetVariantByExternalItemID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	externalItemID := c.Param("external_item_id")
	variant, err := ctrl.variantService.GetVariantByExternalItemID(externalItemID)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to fetch variant by external item id", err, map[string]interface{}{
			"external_item_id": externalItemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, variant)
}

// PendingSync returns active variants awaiting a catalog push
// GET /api/v1/variants/pending-sync
func (ctrl *VariantController) PendingSync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	_, limit := parsePagination(c)
	variants, err := ctrl.variantService.PendingSync(limit)
	if err != nil {
		log.Error("Failed to list variants pending sync", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": variants,
		"count": len(variants),
	})
}

// SetSyncStatus records the outcome of a catalog push for one variant
// POST /api/v1/variants/:id/sync-status
func (ctrl *VariantController) SetSyncStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetSyncStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variant, err := ctrl.variantService.SetSyncStatus(id, req.SyncStatus)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
		case errors.Is(err, service.ErrInvalidSyncStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "unknown sync status")
		default:
			log.Error("Failed to set variant sync status", err, map[string]interface{}{
				"variant_id":  id,
				"sync_status": req.SyncStatus,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, variant)
}

// UpdateVariant edits price, activity or sync status
// PATCH /api/v1/variants/:id
func (ctrl *VariantController) UpdateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variant, err := ctrl.variantService.UpdateVariant(id, service.UpdateVariantInput{
		Price:          req.Price,
		ExternalItemID: req.ExternalItemID,
		IsActive:       req.IsActive,
		SyncStatus:     req.SyncStatus,
	})
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to update variant", err, map[string]interface{}{
			"variant_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, variant)
}

// DeactivateVariant retires a variant from sale
// DELETE /api/v1/variants/:id
func (ctrl *VariantController) DeactivateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.variantService.DeactivateVariant(id); err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to deactivate variant", err, map[string]interface{}{
			"variant_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseQueryID(c *gin.Context, idStr string) (uint, bool) {
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid id")
		return 0, false
	}
	return uint(id), true
}
