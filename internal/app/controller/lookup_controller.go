package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

type LookupController struct {
	lookupService service.LookupService
}

func NewLookupController(lookupService service.LookupService) *LookupController {
	return &LookupController{
		lookupService: lookupService,
	}
}

type CreateBrandRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateColorRequest struct {
	Code string `json:"code" binding:"required,max=5"`
	Name string `json:"name" binding:"required,max=50"`
}

type CreateConditionRequest struct {
	Code        string  `json:"code" binding:"required,max=2"`
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description"`
}

type CreateLCIDefinitionRequest struct {
	ProductID   int    `json:"product_id" binding:"required"`
	LCI         int    `json:"lci" binding:"required"`
	Description string `json:"description" binding:"required,max=255"`
}

// CreateBrand registers a brand
// POST /api/v1/lookups/brands
func (ctrl *LookupController) CreateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	brand, err := ctrl.lookupService.CreateBrand(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrBrandExists) {
			apperrors.Conflict(c, apperrors.LookupAlreadyExists, "a brand with this name already exists")
			return
		}
		log.Error("Failed to create brand", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// ListBrands returns all brands
// GET /api/v1/lookups/brands
func (ctrl *LookupController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brands, err := ctrl.lookupService.ListBrands()
	if err != nil {
		log.Error("Failed to list brands", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": brands})
}

// DeleteBrand removes a brand
// DELETE /api/v1/lookups/brands/:id
func (ctrl *LookupController) DeleteBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.lookupService.DeleteBrand(id); err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			apperrors.NotFound(c, apperrors.LookupNotFound, "brand not found")
			return
		}
		log.Error("Failed to delete brand", err, map[string]interface{}{
			"brand_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListColors returns the color catalog
// GET /api/v1/lookups/colors
func (ctrl *LookupController) ListColors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	colors, err := ctrl.lookupService.ListColors()
	if err != nil {
		log.Error("Failed to list colors", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": colors})
}

// CreateColor registers a color code
// POST /api/v1/lookups/colors
func (ctrl *LookupController) CreateColor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	color, err := ctrl.lookupService.CreateColor(req.Code, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrLookupExists) {
			apperrors.Conflict(c, apperrors.LookupAlreadyExists, "a color with this code already exists")
			return
		}
		log.Error("Failed to create color", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, color)
}

// DeleteColor removes a color code
// DELETE /api/v1/lookups/colors/:id
func (ctrl *LookupController) DeleteColor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.lookupService.DeleteColor(id); err != nil {
		if errors.Is(err, service.ErrColorNotFound) {
			apperrors.NotFound(c, apperrors.LookupNotFound, "color not found")
			return
		}
		log.Error("Failed to delete color", err, map[string]interface{}{
			"color_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListConditions returns the condition catalog
// GET /api/v1/lookups/conditions
func (ctrl *LookupController) ListConditions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conditions, err := ctrl.lookupService.ListConditions()
	if err != nil {
		log.Error("Failed to list conditions", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": conditions})
}

// CreateCondition registers a condition code
// POST /api/v1/lookups/conditions
func (ctrl *LookupController) CreateCondition(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	condition, err := ctrl.lookupService.CreateCondition(req.Code, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrLookupExists) {
			apperrors.Conflict(c, apperrors.LookupAlreadyExists, "a condition with this code already exists")
			return
		}
		log.Error("Failed to create condition", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, condition)
}

// DeleteCondition removes a condition code
// DELETE /api/v1/lookups/conditions/:id
func (ctrl *LookupController) DeleteCondition(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.lookupService.DeleteCondition(id); err != nil {
		if errors.Is(err, service.ErrConditionNotFound) {
			apperrors.NotFound(c, apperrors.LookupNotFound, "condition not found")
			return
		}
		log.Error("Failed to delete condition", err, map[string]interface{}{
			"condition_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateLCIDefinition documents what a part slot means within a family
// POST /api/v1/lookups/lci-definitions
func (ctrl *LookupController) CreateLCIDefinition(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateLCIDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	def, err := ctrl.lookupService.CreateLCIDefinition(req.ProductID, req.LCI, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFamilyNotFound):
			apperrors.NotFound(c, apperrors.FamilyNotFound, "product family not found")
		case errors.Is(err, service.ErrLCIOutOfRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "lci must be between 1 and 99")
		case errors.Is(err, service.ErrLookupExists):
			apperrors.Conflict(c, apperrors.LookupAlreadyExists, "this lci is already defined for the family")
		default:
			log.Error("Failed to create lci definition", err, map[string]interface{}{
				"product_id": req.ProductID,
				"lci":        req.LCI,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, def)
}

// ListLCIDefinitions returns the part slot glossary for a family
// GET /api/v1/lookups/lci-definitions?product_id=845
func (ctrl *LookupController) ListLCIDefinitions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.Atoi(c.Query("product_id"))
	if err != nil || productID < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid product id")
		return
	}

	defs, err := ctrl.lookupService.ListLCIDefinitions(productID)
	if err != nil {
		log.Error("Failed to list lci definitions", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": defs})
}

// DeleteLCIDefinition removes a part slot definition
// DELETE /api/v1/lookups/lci-definitions/:id
func (ctrl *LookupController) DeleteLCIDefinition(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.lookupService.DeleteLCIDefinition(id); err != nil {
		if errors.Is(err, service.ErrLCIDefinitionNotFound) {
			apperrors.NotFound(c, apperrors.LookupNotFound, "lci definition not found")
			return
		}
		log.Error("Failed to delete lci definition", err, map[string]interface{}{
			"definition_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
