package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

type ListingController struct {
	listingService service.ListingService
}

func NewListingController(listingService service.ListingService) *ListingController {
	return &ListingController{
		listingService: listingService,
	}
}

type CreateListingRequest struct {
	VariantID        uint           `json:"variant_id" binding:"required"`
	Platform         model.Platform `json:"platform" binding:"required"`
	Title            *string        `json:"title"`
	Description      *string        `json:"description"`
	Price            *float64       `json:"price" binding:"omitempty,gte=0"`
	ImageURLs        []string       `json:"image_urls"`
	PlatformMetadata *string        `json:"platform_metadata"`
}

type UpdateListingRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" binding:"omitempty,gte=0"`
	ImageURLs        []string `json:"image_urls"`
	PlatformMetadata *string  `json:"platform_metadata"`
}

type MarkSyncedRequest struct {
	ExternalRefID *string `json:"external_ref_id"`
}

type MarkErrorRequest struct {
	Message string `json:"message" binding:"required"`
}

// CreateListing projects a variant onto a platform
// POST /api/v1/listings
func (ctrl *ListingController) CreateListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid listing payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	listing, err := ctrl.listingService.CreateListing(service.CreateListingInput{
		VariantID:        req.VariantID,
		Platform:         req.Platform,
		Title:            req.Title,
		Description:      req.Description,
		Price:            req.Price,
		ImageURLs:        req.ImageURLs,
		PlatformMetadata: req.PlatformMetadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlatform):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "unknown platform")
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.VariantNotFound, "product variant not found")
		case errors.Is(err, service.ErrVariantInactive):
			apperrors.BadRequest(c, apperrors.VariantInactive, "cannot list an inactive variant")
		case errors.Is(err, service.ErrListingExists):
			apperrors.Conflict(c, apperrors.ListingAlreadyExists, "this variant is already listed on that platform")
		default:
			log.Error("Failed to create listing", err, map[string]interface{}{
				"variant_id": req.VariantID,
				"platform":   req.Platform,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Listing created", map[string]interface{}{
		"listing_id": listing.ID,
	})
	c.JSON(http.StatusCreated, listing)
}

// ListListings returns listings with filters and pagination
// GET /api/v1/listings
func (ctrl *ListingController) ListListings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	skip, limit := parsePagination(c)
	filter := repository.ListingFilter{
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
	if platformStr := c.Query("platform"); platformStr != "" {
		platform := model.Platform(platformStr)
		filter.Platform = &platform
	}
	if statusStr := c.Query("sync_status"); statusStr != "" {
		status := model.PlatformSyncStatus(statusStr)
		filter.SyncStatus = &status
	}

	listings, total, err := ctrl.listingService.ListListings(filter)
	if err != nil {
		log.Error("Failed to list listings", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"skip":  skip,
		"limit": limit,
		"items": listings,
	})
}

// GetListing returns one listing by id
// GET /api/v1/listings/:id
func (ctrl *ListingController) GetListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	listing, err := ctrl.listingService.GetListing(id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
			return
		}
		log.Error("Failed to fetch listing", err, map[string]interface{}{
			"listing_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpdateListing edits listing content
// PATCH /api/v1/listings/:id
func (ctrl *ListingController) UpdateListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	listing, err := ctrl.listingService.UpdateListing(id, service.UpdateListingInput{
		Title:            req.Title,
		Description:      req.Description,
		Price:            req.Price,
		ImageURLs:        req.ImageURLs,
		PlatformMetadata: req.PlatformMetadata,
	})
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
			return
		}
		log.Error("Failed to update listing", err, map[string]interface{}{
			"listing_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MarkSynced records a successful platform push
// POST /api/v1/listings/:id/mark-synced
func (ctrl *ListingController) MarkSynced(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MarkSyncedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	listing, err := ctrl.listingService.MarkSynced(id, req.ExternalRefID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
			return
		}
		log.Error("Failed to mark listing synced", err, map[string]interface{}{
			"listing_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetListingByExternalRef resolves a listing from the id a platform
// assigned it
// GET /api/v1/listings/external/:platform/:external_ref_id
func (ctrl *ListingController) GetListingByExternalRef(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platform := model.Platform(c.Param("platform"))
	externalRefID := c.Param("external_ref_id")

	listing, err := ctrl.listingService.GetListingByExternalRef(platform, externalRefID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlatform):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "unknown platform")
		case errors.Is(err, service.ErrListingNotFound):
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
		default:
			log.Error("Failed to fetch listing by external ref", err, map[string]interface{}{
				"platform":        platform,
				"external_ref_id": externalRefID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MarkError records a failed platform push
// POST /api/v1/listings/:id/mark-error
func (ctrl *ListingController) MarkError(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MarkErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	listing, err := ctrl.listingService.MarkError(id, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
			return
		}
		log.Error("Failed to mark listing errored", err, map[string]interface{}{
			"listing_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// PendingSync returns listings awaiting their first (or next) push
// GET /api/v1/listings/pending/:platform
func (ctrl *ListingController) PendingSync(c *gin.Context) {
	ctrl.byStatus(c, false)
}

// FailedSync returns listings whose last push failed
// GET /api/v1/listings/failed/:platform
func (ctrl *ListingController) FailedSync(c *gin.Context) {
	ctrl.byStatus(c, true)
}

func (ctrl *ListingController) byStatus(c *gin.Context, failed bool) {
	log := middleware.GetLoggerFromContext(c)

	platform := model.Platform(c.Param("platform"))
	_, limit := parsePagination(c)

	var listings []model.PlatformListing
	var err error
	if failed {
		listings, err = ctrl.listingService.FailedByPlatform(platform, limit)
	} else {
		listings, err = ctrl.listingService.PendingByPlatform(platform, limit)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlatform) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "unknown platform")
			return
		}
		log.Error("Failed to list listings by status", err, map[string]interface{}{
			"platform": platform,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// DeleteListing removes a listing
// DELETE /api/v1/listings/:id
func (ctrl *ListingController) DeleteListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.listingService.DeleteListing(id); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "platform listing not found")
			return
		}
		log.Error("Failed to delete listing", err, map[string]interface{}{
			"listing_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
