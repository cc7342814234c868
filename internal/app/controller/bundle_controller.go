package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

type BundleController struct {
	bundleService service.BundleService
}

func NewBundleController(bundleService service.BundleService) *BundleController {
	return &BundleController{
		bundleService: bundleService,
	}
}

type AddComponentRequest struct {
	ChildIdentityID uint             `json:"child_identity_id" binding:"required"`
	Quantity        int              `json:"quantity" binding:"omitempty,gte=1"`
	Role            model.BundleRole `json:"role"`
}

type UpdateComponentRequest struct {
	Quantity *int              `json:"quantity" binding:"omitempty,gte=1"`
	Role     *model.BundleRole `json:"role"`
}

// AddComponent attaches a child identity to a bundle
// POST /api/v1/bundles/:id/components
func (ctrl *BundleController) AddComponent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	parentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid bundle component payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	component, err := ctrl.bundleService.AddComponent(service.AddComponentInput{
		ParentIdentityID: parentID,
		ChildIdentityID:  req.ChildIdentityID,
		Quantity:         quantity,
		Role:             req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityNotFound):
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
		case errors.Is(err, service.ErrBundleNotComposite):
			apperrors.BadRequest(c, apperrors.BundleNotComposite, "parent identity must be a bundle (B) or kit (K)")
		case errors.Is(err, service.ErrBundleSelfReference):
			apperrors.BadRequest(c, apperrors.BundleSelfReference, "a bundle cannot contain itself")
		case errors.Is(err, service.ErrBundleInvalidQuantity):
			apperrors.BadRequest(c, apperrors.BundleInvalidQuantity, "quantity must be at least 1")
		case errors.Is(err, service.ErrBundleCycle):
			apperrors.BadRequest(c, apperrors.BundleCycleDetected, "adding this component would create a cycle")
		case errors.Is(err, service.ErrBundleComponentExists):
			apperrors.Conflict(c, apperrors.BundleComponentExists, "this component is already part of the bundle")
		default:
			log.Error("Failed to add bundle component", err, map[string]interface{}{
				"parent_identity_id": parentID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Bundle component added", map[string]interface{}{
		"component_id": component.ID,
	})
	c.JSON(http.StatusCreated, component)
}

// ListComponents returns the direct children of a bundle
// GET /api/v1/bundles/:id/components
func (ctrl *BundleController) ListComponents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	parentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	components, err := ctrl.bundleService.ListComponents(parentID)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
			return
		}
		log.Error("Failed to list bundle components", err, map[string]interface{}{
			"parent_identity_id": parentID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": components,
		"count":      len(components),
	})
}

// ListParents returns the bundles containing an identity
// GET /api/v1/identities/:id/bundles
func (ctrl *BundleController) ListParents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	childID, ok := parseID(c, "id")
	if !ok {
		return
	}

	components, err := ctrl.bundleService.ListParents(childID)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotFound) {
			apperrors.NotFound(c, apperrors.IdentityNotFound, "product identity not found")
			return
		}
		log.Error("Failed to list parent bundles", err, map[string]interface{}{
			"child_identity_id": childID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundles": components,
		"count":   len(components),
	})
}

// GetComponent returns one edge with both endpoints preloaded
// GET /api/v1/bundles/components/:component_id
func (ctrl *BundleController) GetComponent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	componentID, ok := parseID(c, "component_id")
	if !ok {
		return
	}

	component, err := ctrl.bundleService.GetComponent(componentID)
	if err != nil {
		if errors.Is(err, service.ErrBundleComponentNotFound) {
			apperrors.NotFound(c, apperrors.BundleNotFound, "bundle component not found")
			return
		}
		log.Error("Failed to fetch bundle component", err, map[string]interface{}{
			"component_id": componentID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, component)
}

// UpdateComponent edits quantity or role of an edge
// PATCH /api/v1/bundles/components/:component_id
func (ctrl *BundleController) UpdateComponent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	componentID, ok := parseID(c, "component_id")
	if !ok {
		return
	}

	var req UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	component, err := ctrl.bundleService.UpdateComponent(componentID, service.UpdateComponentInput{
		Quantity: req.Quantity,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBundleComponentNotFound):
			apperrors.NotFound(c, apperrors.BundleNotFound, "bundle component not found")
		case errors.Is(err, service.ErrBundleInvalidQuantity):
			apperrors.BadRequest(c, apperrors.BundleInvalidQuantity, "quantity must be at least 1")
		default:
			log.Error("Failed to update bundle component", err, map[string]interface{}{
				"component_id": componentID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, component)
}

// RemoveComponent detaches a child from its bundle
// DELETE /api/v1/bundles/components/:component_id
func (ctrl *BundleController) RemoveComponent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	componentID, ok := parseID(c, "component_id")
	if !ok {
		return
	}

	if err := ctrl.bundleService.RemoveComponent(componentID); err != nil {
		if errors.Is(err, service.ErrBundleComponentNotFound) {
			apperrors.NotFound(c, apperrors.BundleNotFound, "bundle component not found")
			return
		}
		log.Error("Failed to remove bundle component", err, map[string]interface{}{
			"component_id": componentID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
