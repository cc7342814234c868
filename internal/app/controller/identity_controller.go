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

type IdentityController struct {
	identityService service.IdentityService
}

func NewIdentityController(identityService service.IdentityService) *IdentityController {
	return &IdentityController{
		identityService: identityService,
	}
}

type CreateIdentityRequest struct {
	ProductID     int                  `json:"product_id" binding:"gte=0,lte=99999"`
	IdentityType  sku.IdentityType     `json:"identity_type" binding:"required"`
	LCI           *int                 `json:"lci" binding:"omitempty,gte=1,lte=99"`
	Name          string               `json:"name" binding:"required"`
	Description   *string              `json:"description"`
	PhysicalClass *model.PhysicalClass `json:"physical_class"`
}

type UpdateIdentityRequest struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	PhysicalClass *model.PhysicalClass `json:"physical_class"`
}

// CreateIdentity registers an identity and derives its UPIS-H
// POST /api/v1/identities
func (ctrl *IdentityController) CreateIdentity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid identity payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	identity, err := ctrl.identityService.CreateIdentity(service.CreateIdentityInput{
		ProductID:     req.ProductID,
		IdentityType:  req.IdentityType,
		LCI:           req.LCI,
		Name:          req.Name,
		Description:   req.Description,
		PhysicalClass: req.PhysicalClass,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFamilyNotFound):
			apperrors.NotFound(c, apperrors.FamilyNotFound, "product family not found")
		case errors.Is(err, service.ErrInvalidIdentityType):
			apperrors.BadRequest(c, apperrors.IdentityInvalidType, "identity type must be one of Base, B, P, K, S")
		case errors.Is(err, service.ErrLCINotAllowed):
			apperrors.BadRequest(c, apperrors.IdentityLCINotAllowed, "lci can only be set on Part identities")
		case errors.Is(err, service.ErrLCIOutOfRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "lci must be between 1 and 99")
		case errors.Is(err, service.ErrLCIExhausted):
			apperrors.Conflict(c, apperrors.IdentityLCIExhausted, "all part slots in this family are taken")
		case errors.Is(err, service.ErrIdentityExists):
			apperrors.Conflict(c, apperrors.IdentityAlreadyExists, "an identity with this UPIS-H already exists")
		default:
			log.Error("Failed to create identity", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Identity created", map[string]interface{}{
		"identity_id": identity.ID,
		"upis_h":      identity.UPISH,
	})
	c.JSON(http.StatusCreated, identity)
}

// ListIdentities returns identities with filters and pagination
// GET /api/v1/identities
func (ctrl *IdentityController) ListIdentities(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skip, limit := parsePagination(c)
	filter := repository.IdentityFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: skip,
	}
	if pidStr := c.Query("product_id"); pidStr != "" {
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid product id")
			return
		}
		filter.ProductID = &pid
	}
	if typeStr := c.Query("identity_type"); typeStr != "" {
		t := sku.IdentityType(typeStr)
		if !sku.ValidType(t) {
			apperrors.BadRequest(c, apperrors.IdentityInvalidType, "unknown identity type")
			return
		}
		filter.IdentityType = &t
	}

	identities, total, err := ctrl.identityService.ListIdentities(filter)
	if err != nil {
		log.Error("Failed to list identities", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  skip,
		"limit": limit,
		"items": identities,
	})
}

// GetIdentity returns one identity by id
// GET /api/v1/identities/:id
func (ctrl *IdentityController) GetIdentity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	identity, err := ctrl.identityService.GetIdentity(id)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
			return
		}
		log.Error("Failed to fetch identity", err, map[string]interface{}{
			"identity_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, identity)
}

// GetIdentityByUPISH resolves an identity from its UPIS-H string
// GET /api/v1/identities/upis/:upis_h
func (ctrl *IdentityController) GetIdentityByUPISH(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	upisH := c.Param("upis_h")
	identity, err := ctrl.identityService.GetIdentityByUPISH(upisH)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
			return
		}
		log.Error("Failed to fetch identity by UPIS-H", err, map[string]interface{}{
			"upis_h": upisH,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, identity)
}

// UpdateIdentity edits descriptive fields
// PATCH /api/v1/identities/:id
func (ctrl *IdentityController) UpdateIdentity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	identity, err := ctrl.identityService.UpdateIdentity(id, service.UpdateIdentityInput{
		Name:          req.Name,
		Description:   req.Description,
		PhysicalClass: req.PhysicalClass,
	})
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
			return
		}
		log.Error("Failed to update identity", err, map[string]interface{}{
			"identity_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, identity)
}

// DeleteIdentity removes an identity; ?force=true cascades variants
// and bundle edges
// DELETE /api/v1/identities/:id
func (ctrl *IdentityController) DeleteIdentity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	force := c.Query("force") == "true"

	if err := ctrl.identityService.DeleteIdentity(id, force); err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityNotFound):
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
		case errors.Is(err, service.ErrIdentityHasVariants):
			apperrors.Conflict(c, apperrors.ResourceConflict, "identity still has variants; pass force=true to cascade")
		default:
			log.Error("Failed to delete identity", err, map[string]interface{}{
				"identity_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid id")
		return 0, false
	}
	return uint(id), true
}
