package repository

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

type VariantFilter struct {
	IdentityID      *uint
	SyncStatus      *model.ZohoSyncStatus
	IncludeInactive bool
	Limit           int
	Offset          int
}

type VariantRepository interface {
	Create(variant *model.ProductVariant) error
	FindAll(filter VariantFilter) ([]model.ProductVariant, int64, error)
	FindByID(id uint) (*model.ProductVariant, error)
	FindBySKU(fullSKU string) (*model.ProductVariant, error)
	FindByExternalItemID(externalItemID string) (*model.ProductVariant, error)
	FindByIdentity(identityID uint, includeInactive bool) ([]model.ProductVariant, error)
	FindPendingSync(limit int) ([]model.ProductVariant, error)
	FindDuplicate(identityID uint, colorCode *string, conditionCode *sku.ConditionCode) (*model.ProductVariant, error)
	Update(variant *model.ProductVariant) error
	SetSyncStatus(id uint, status model.ZohoSyncStatus) error
	Deactivate(id uint) error
	Delete(id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"identity_id": variant.IdentityID,
		"full_sku":    variant.FullSKU,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"identity_id": variant.IdentityID,
			"full_sku":    variant.FullSKU,
		})
		return err
	}
	return nil
}

func (r *variantRepository) FindAll(filter VariantFilter) ([]model.ProductVariant, int64, error) {
	logger.Debug("Finding product variants with filter", map[string]interface{}{
		"identity_id":      filter.IdentityID,
		"sync_status":      filter.SyncStatus,
		"include_inactive": filter.IncludeInactive,
		"limit":            filter.Limit,
		"offset":           filter.Offset,
	})

	query := r.db.Model(&model.ProductVariant{}).Preload("Identity")

	if filter.IdentityID != nil {
		query = query.Where("identity_id = ?", *filter.IdentityID)
	}
	if filter.SyncStatus != nil {
		query = query.Where("sync_status = ?", *filter.SyncStatus)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count product variants", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var variants []model.ProductVariant
	if err := query.Order("full_sku ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find product variants", err)
		return nil, 0, err
	}

	return variants, total, nil
}

func (r *variantRepository) FindByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.Preload("Identity").First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindBySKU(fullSKU string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.Preload("Identity").First(&variant, "full_sku = ?", fullSKU).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByExternalItemID(externalItemID string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.Preload("Identity").First(&variant, "external_item_id = ?", externalItemID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindPendingSync returns active variants the catalog sync still owes a
// push for: never-synced ones plus those edited since their last sync.
func (r *variantRepository) FindPendingSync(limit int) ([]model.ProductVariant, error) {
	query := r.db.Preload("Identity").
		Where("is_active = ?", true).
		Where("sync_status IN ?", []model.ZohoSyncStatus{model.ZohoSyncPending, model.ZohoSyncDirty}).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var variants []model.ProductVariant
	if err := query.Find(&variants).Error; err != nil {
		logger.Error("Failed to find variants pending sync", err)
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByIdentity(identityID uint, includeInactive bool) ([]model.ProductVariant, error) {
	query := r.db.Where("identity_id = ?", identityID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var variants []model.ProductVariant
	if err := query.Order("full_sku ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindDuplicate looks for an existing variant with the same identity,
// color and condition. Inactive variants count: reactivation, not
// duplication, is the recovery path.
func (r *variantRepository) FindDuplicate(identityID uint, colorCode *string, conditionCode *sku.ConditionCode) (*model.ProductVariant, error) {
	query := r.db.Where("identity_id = ?", identityID)

	if colorCode != nil {
		query = query.Where("color_code = ?", *colorCode)
	} else {
		query = query.Where("color_code IS NULL")
	}
	if conditionCode != nil {
		query = query.Where("condition_code = ?", *conditionCode)
	} else {
		query = query.Where("condition_code IS NULL")
	}

	var variant model.ProductVariant
	if err := query.First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) Update(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"full_sku":   variant.FullSKU,
	})

	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

func (r *variantRepository) SetSyncStatus(id uint, status model.ZohoSyncStatus) error {
	result := r.db.Model(&model.ProductVariant{}).
		Where("id = ?", id).
		Update("sync_status", status)
	if result.Error != nil {
		logger.Error("Failed to set variant sync status", result.Error, map[string]interface{}{
			"variant_id": id,
			"status":     status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate soft-retires a variant without touching its history.
func (r *variantRepository) Deactivate(id uint) error {
	result := r.db.Model(&model.ProductVariant{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate product variant", result.Error, map[string]interface{}{
			"variant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *variantRepository) Delete(id uint) error {
	logger.Debug("Deleting product variant from database", map[string]interface{}{
		"variant_id": id,
	})

	if err := r.db.Delete(&model.ProductVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete product variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}
