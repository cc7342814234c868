package service

import (
	"errors"

	"github.com/lib/pq"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/websocket"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("platform listing not found")
	ErrListingExists   = errors.New("variant already listed on platform")
	ErrInvalidPlatform = errors.New("invalid platform")
)

var knownPlatforms = map[model.Platform]bool{
	model.PlatformZoho:     true,
	model.PlatformAmazonUS: true,
	model.PlatformAmazonCA: true,
	model.PlatformEbay:     true,
	model.PlatformEcwid:    true,
}

type CreateListingInput struct {
	VariantID        uint
	Platform         model.Platform
	Title            *string
	Description      *string
	Price            *float64
	ImageURLs        []string
	PlatformMetadata *string
}

type UpdateListingInput struct {
	Title            *string
	Description      *string
	Price            *float64
	ImageURLs        []string
	PlatformMetadata *string
}

type ListingService interface {
	CreateListing(input CreateListingInput) (*model.PlatformListing, error)
	ListListings(filter repository.ListingFilter) ([]model.PlatformListing, int64, error)
	GetListing(id uint) (*model.PlatformListing, error)
	GetListingByExternalRef(platform model.Platform, externalRefID string) (*model.PlatformListing, error)
	UpdateListing(id uint, input UpdateListingInput) (*model.PlatformListing, error)
	MarkSynced(id uint, externalRefID *string) (*model.PlatformListing, error)
	MarkError(id uint, message string) (*model.PlatformListing, error)
	PendingByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error)
	FailedByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error)
	DeleteListing(id uint) error
}

type listingService struct {
	listingRepo repository.ListingRepository
	variantRepo repository.VariantRepository
}

func NewListingService(
	listingRepo repository.ListingRepository,
	variantRepo repository.VariantRepository,
) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		variantRepo: variantRepo,
	}
}

func (s *listingService) CreateListing(input CreateListingInput) (*model.PlatformListing, error) {
	logger.Debug("Creating platform listing", map[string]interface{}{
		"variant_id": input.VariantID,
		"platform":   input.Platform,
	})

	if !knownPlatforms[input.Platform] {
		return nil, ErrInvalidPlatform
	}

	variant, err := s.variantRepo.FindByID(input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if !variant.IsActive {
		return nil, ErrVariantInactive
	}

	if _, err := s.listingRepo.FindByVariantAndPlatform(input.VariantID, input.Platform); err == nil {
		return nil, ErrListingExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	listing := &model.PlatformListing{
		VariantID:        input.VariantID,
		Platform:         input.Platform,
		Title:            input.Title,
		Description:      input.Description,
		Price:            input.Price,
		ImageURLs:        pq.StringArray(input.ImageURLs),
		PlatformMetadata: input.PlatformMetadata,
		SyncStatus:       model.PlatformSyncPending,
	}

	if err := s.listingRepo.Create(listing); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrListingExists
		}
		return nil, err
	}

	logger.Info("Platform listing created", map[string]interface{}{
		"listing_id": listing.ID,
		"variant_id": listing.VariantID,
		"platform":   listing.Platform,
	})
	return listing, nil
}

func (s *listingService) ListListings(filter repository.ListingFilter) ([]model.PlatformListing, int64, error) {
	return s.listingRepo.FindAll(filter)
}

func (s *listingService) GetListing(id uint) (*model.PlatformListing, error) {
	listing, err := s.listingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) GetListingByExternalRef(platform model.Platform, externalRefID string) (*model.PlatformListing, error) {
	if !knownPlatforms[platform] {
		return nil, ErrInvalidPlatform
	}

	listing, err := s.listingRepo.FindByExternalRef(platform, externalRefID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// UpdateListing edits listing content. Any content change resets the
// sync status to PENDING so the next sync pass republishes it.
func (s *listingService) UpdateListing(id uint, input UpdateListingInput) (*model.PlatformListing, error) {
	listing, err := s.GetListing(id)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Title != nil {
		listing.Title = input.Title
		changed = true
	}
	if input.Description != nil {
		listing.Description = input.Description
		changed = true
	}
	if input.Price != nil {
		listing.Price = input.Price
		changed = true
	}
	if input.ImageURLs != nil {
		listing.ImageURLs = pq.StringArray(input.ImageURLs)
		changed = true
	}
	if input.PlatformMetadata != nil {
		listing.PlatformMetadata = input.PlatformMetadata
		changed = true
	}

	if changed && listing.SyncStatus == model.PlatformSyncSynced {
		listing.SyncStatus = model.PlatformSyncPending
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) MarkSynced(id uint, externalRefID *string) (*model.PlatformListing, error) {
	if _, err := s.GetListing(id); err != nil {
		return nil, err
	}

	if err := s.listingRepo.MarkSynced(id, externalRefID); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Platform listing marked synced", map[string]interface{}{
		"listing_id":      id,
		"external_ref_id": externalRefID,
	})

	websocket.Publish(websocket.EventListingSynced, map[string]interface{}{
		"listing_id": listing.ID,
		"platform":   listing.Platform,
	})
	return listing, nil
}

func (s *listingService) MarkError(id uint, message string) (*model.PlatformListing, error) {
	if _, err := s.GetListing(id); err != nil {
		return nil, err
	}

	if err := s.listingRepo.MarkError(id, message); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Platform listing marked errored", map[string]interface{}{
		"listing_id": id,
		"error":      message,
	})

	websocket.Publish(websocket.EventListingError, map[string]interface{}{
		"listing_id": listing.ID,
		"platform":   listing.Platform,
		"error":      message,
	})
	return listing, nil
}

func (s *listingService) PendingByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error) {
	if !knownPlatforms[platform] {
		return nil, ErrInvalidPlatform
	}
	return s.listingRepo.FindPendingByPlatform(platform, limit)
}

func (s *listingService) FailedByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error) {
	if !knownPlatforms[platform] {
		return nil, ErrInvalidPlatform
	}
	return s.listingRepo.FindFailedByPlatform(platform, limit)
}

func (s *listingService) DeleteListing(id uint) error {
	if _, err := s.GetListing(id); err != nil {
		return err
	}

	if err := s.listingRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Platform listing deleted", map[string]interface{}{
		"listing_id": id,
	})
	return nil
}
