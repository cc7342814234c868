package repository

import (
	"time"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

type ListingFilter struct {
	VariantID  *uint
	Platform   *model.Platform
	SyncStatus *model.PlatformSyncStatus
	Limit      int
	Offset     int
}

type ListingRepository interface {
	Create(listing *model.PlatformListing) error
	FindAll(filter ListingFilter) ([]model.PlatformListing, int64, error)
	FindByID(id uint) (*model.PlatformListing, error)
	FindByVariantAndPlatform(variantID uint, platform model.Platform) (*model.PlatformListing, error)
	FindByExternalRef(platform model.Platform, externalRefID string) (*model.PlatformListing, error)
	FindPendingByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error)
	FindFailedByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error)
	Update(listing *model.PlatformListing) error
	MarkSynced(id uint, externalRefID *string) error
	MarkError(id uint, message string) error
	Delete(id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *model.PlatformListing) error {
	logger.Debug("Creating platform listing in database", map[string]interface{}{
		"variant_id": listing.VariantID,
		"platform":   listing.Platform,
	})

	if err := r.db.Create(listing).Error; err != nil {
		logger.Error("Failed to create platform listing in database", err, map[string]interface{}{
			"variant_id": listing.VariantID,
			"platform":   listing.Platform,
		})
		return err
	}
	return nil
}

func (r *listingRepository) FindAll(filter ListingFilter) ([]model.PlatformListing, int64, error) {
	logger.Debug("Finding platform listings with filter", map[string]interface{}{
		"variant_id":  filter.VariantID,
		"platform":    filter.Platform,
		"sync_status": filter.SyncStatus,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.Model(&model.PlatformListing{}).Preload("Variant")

	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.SyncStatus != nil {
		query = query.Where("sync_status = ?", *filter.SyncStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count platform listings", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var listings []model.PlatformListing
	if err := query.Order("id ASC").Find(&listings).Error; err != nil {
		logger.Error("Failed to find platform listings", err)
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *listingRepository) FindByID(id uint) (*model.PlatformListing, error) {
	var listing model.PlatformListing
	if err := r.db.Preload("Variant").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByVariantAndPlatform(variantID uint, platform model.Platform) (*model.PlatformListing, error) {
	var listing model.PlatformListing
	err := r.db.
		First(&listing, "variant_id = ? AND platform = ?", variantID, platform).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByExternalRef(platform model.Platform, externalRefID string) (*model.PlatformListing, error) {
	var listing model.PlatformListing
	err := r.db.Preload("Variant").
		First(&listing, "platform = ? AND external_ref_id = ?", platform, externalRefID).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindPendingByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error) {
	return r.findByStatus(platform, model.PlatformSyncPending, limit)
}

func (r *listingRepository) FindFailedByPlatform(platform model.Platform, limit int) ([]model.PlatformListing, error) {
	return r.findByStatus(platform, model.PlatformSyncError, limit)
}

func (r *listingRepository) findByStatus(platform model.Platform, status model.PlatformSyncStatus, limit int) ([]model.PlatformListing, error) {
	query := r.db.Preload("Variant").
		Where("platform = ? AND sync_status = ?", platform, status).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var listings []model.PlatformListing
	if err := query.Find(&listings).Error; err != nil {
		logger.Error("Failed to find listings by sync status", err, map[string]interface{}{
			"platform": platform,
			"status":   status,
		})
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(listing *model.PlatformListing) error {
	logger.Debug("Updating platform listing in database", map[string]interface{}{
		"listing_id": listing.ID,
	})

	if err := r.db.Save(listing).Error; err != nil {
		logger.Error("Failed to update platform listing in database", err, map[string]interface{}{
			"listing_id": listing.ID,
		})
		return err
	}
	return nil
}

// MarkSynced stamps a successful sync: status, timestamp, cleared
// error and, when provided, the platform's own record id.
func (r *listingRepository) MarkSynced(id uint, externalRefID *string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"sync_status":    model.PlatformSyncSynced,
		"last_synced_at": &now,
		"sync_error":     nil,
	}
	if externalRefID != nil {
		updates["external_ref_id"] = *externalRefID
	}

	result := r.db.Model(&model.PlatformListing{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to mark listing synced", result.Error, map[string]interface{}{
			"listing_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkError records a sync failure without touching last_synced_at,
// which keeps the timestamp of the last success.
func (r *listingRepository) MarkError(id uint, message string) error {
	result := r.db.Model(&model.PlatformListing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_status": model.PlatformSyncError,
			"sync_error":  message,
		})
	if result.Error != nil {
		logger.Error("Failed to mark listing errored", result.Error, map[string]interface{}{
			"listing_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listingRepository) Delete(id uint) error {
	logger.Debug("Deleting platform listing from database", map[string]interface{}{
		"listing_id": id,
	})

	if err := r.db.Delete(&model.PlatformListing{}, id).Error; err != nil {
		logger.Error("Failed to delete platform listing from database", err, map[string]interface{}{
			"listing_id": id,
		})
		return err
	}
	return nil
}
