package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

type FamilyController struct {
	familyService service.FamilyService
}

func NewFamilyController(familyService service.FamilyService) *FamilyController {
	return &FamilyController{
		familyService: familyService,
	}
}

type CreateFamilyRequest struct {
	ProductID           *int     `json:"product_id" binding:"omitempty,gte=0,lte=99999"`
	BaseName            string   `json:"base_name" binding:"required"`
	Description         *string  `json:"description"`
	BrandID             *uint    `json:"brand_id"`
	DimensionLength     *float64 `json:"dimension_length"`
	DimensionWidth      *float64 `json:"dimension_width"`
	DimensionHeight     *float64 `json:"dimension_height"`
	Weight              *float64 `json:"weight"`
	KitIncludedProducts *string  `json:"kit_included_products"`
}

type UpdateFamilyRequest struct {
	BaseName            *string  `json:"base_name"`
	Description         *string  `json:"description"`
	BrandID             *uint    `json:"brand_id"`
	DimensionLength     *float64 `json:"dimension_length"`
	DimensionWidth      *float64 `json:"dimension_width"`
	DimensionHeight     *float64 `json:"dimension_height"`
	Weight              *float64 `json:"weight"`
	KitIncludedProducts *string  `json:"kit_included_products"`
}

// CreateFamily creates a product family
// POST /api/v1/families
func (ctrl *FamilyController) CreateFamily(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid family payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	family, err := ctrl.familyService.CreateFamily(service.CreateFamilyInput{
		ProductID:           req.ProductID,
		BaseName:            req.BaseName,
		Description:         req.Description,
		BrandID:             req.BrandID,
		DimensionLength:     req.DimensionLength,
		DimensionWidth:      req.DimensionWidth,
		DimensionHeight:     req.DimensionHeight,
		Weight:              req.Weight,
		KitIncludedProducts: req.KitIncludedProducts,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFamilyExists):
			apperrors.Conflict(c, apperrors.FamilyAlreadyExists, "a family with this product id already exists")
		case errors.Is(err, service.ErrProductIDOutOfRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "product id must be between 0 and 99999")
		case errors.Is(err, service.ErrProductIDsExhausted):
			apperrors.Conflict(c, apperrors.ResourceConflict, "no product ids left to assign")
		default:
			log.Error("Failed to create family", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Family created", map[string]interface{}{
		"product_id": family.ProductID,
	})
	c.JSON(http.StatusCreated, family)
}

// ListFamilies returns families with pagination
// GET /api/v1/families
func (ctrl *FamilyController) ListFamilies(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skip, limit := parsePagination(c)
	filter := repository.FamilyFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: skip,
	}
	if brandStr := c.Query("brand_id"); brandStr != "" {
		brandID, err := strconv.ParseUint(brandStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid brand id")
			return
		}
		id := uint(brandID)
		filter.BrandID = &id
	}

	families, total, err := ctrl.familyService.ListFamilies(filter)
	if err != nil {
		log.Error("Failed to list families", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  skip,
		"limit": limit,
		"items": families,
	})
}

// GetFamily returns one family by product id
// GET /api/v1/families/:product_id
func (ctrl *FamilyController) GetFamily(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	family, err := ctrl.familyService.GetFamily(productID)
	if err != nil {
		if errors.Is(err, service.ErrFamilyNotFound) {
			apperrors.NotFound(c, apperrors.FamilyNotFound, "product family not found")
			return
		}
		log.Error("Failed to fetch family", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	identityCount, err := ctrl.familyService.CountIdentities(productID)
	if err != nil {
		log.Error("Failed to count family identities", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"family":         family,
		"identity_count": identityCount,
	})
}

// UpdateFamily updates mutable family fields
// PATCH /api/v1/families/:product_id
func (ctrl *FamilyController) UpdateFamily(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	family, err := ctrl.familyService.UpdateFamily(productID, service.UpdateFamilyInput{
		BaseName:            req.BaseName,
		Description:         req.Description,
		BrandID:             req.BrandID,
		DimensionLength:     req.DimensionLength,
		DimensionWidth:      req.DimensionWidth,
		DimensionHeight:     req.DimensionHeight,
		Weight:              req.Weight,
		KitIncludedProducts: req.KitIncludedProducts,
	})
	if err != nil {
		if errors.Is(err, service.ErrFamilyNotFound) {
			apperrors.NotFound(c, apperrors.FamilyNotFound, "product family not found")
			return
		}
		log.Error("Failed to update family", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, family)
}

// DeleteFamily removes a family; ?force=true cascades identities
// DELETE /api/v1/families/:product_id
func (ctrl *FamilyController) DeleteFamily(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	force := c.Query("force") == "true"

	if err := ctrl.familyService.DeleteFamily(productID, force); err != nil {
		switch {
		case errors.Is(err, service.ErrFamilyNotFound):
			apperrors.NotFound(c, apperrors.FamilyNotFound, "product family not found")
		case errors.Is(err, service.ErrFamilyHasIdentities):
			apperrors.Conflict(c, apperrors.FamilyHasIdentities, "family still has identities; pass force=true to cascade")
		default:
			log.Error("Failed to delete family", err, map[string]interface{}{
				"product_id": productID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func parseProductID(c *gin.Context) (int, bool) {
	idStr := c.Param("product_id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid product id")
		return 0, false
	}
	return id, true
}

// parsePagination reads skip/limit query params with sane defaults.
func parsePagination(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	return skip, limit
}
