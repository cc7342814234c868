package repository

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

type IdentityFilter struct {
	ProductID    *int
	IdentityType *sku.IdentityType
	Search       string
	Limit        int
	Offset       int
}

type IdentityRepository interface {
	Create(identity *model.ProductIdentity) error
	FindAll(filter IdentityFilter) ([]model.ProductIdentity, int64, error)
	FindByID(id uint) (*model.ProductIdentity, error)
	FindByUPISH(upisH string) (*model.ProductIdentity, error)
	FindByFamily(productID int) ([]model.ProductIdentity, error)
	ExistsUPISH(upisH string) (bool, error)
	NextLCI(productID int) (int, error)
	Update(identity *model.ProductIdentity) error
	Delete(id uint) error
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Create(identity *model.ProductIdentity) error {
	logger.Debug("Creating product identity in database", map[string]interface{}{
		"product_id":    identity.ProductID,
		"identity_type": identity.IdentityType,
		"lci":           identity.LCI,
		"upis_h":        identity.UPISH,
	})

	if err := r.db.Create(identity).Error; err != nil {
		logger.Error("Failed to create product identity in database", err, map[string]interface{}{
			"product_id": identity.ProductID,
			"upis_h":     identity.UPISH,
		})
		return err
	}
	return nil
}

func (r *identityRepository) FindAll(filter IdentityFilter) ([]model.ProductIdentity, int64, error) {
	logger.Debug("Finding product identities with filter", map[string]interface{}{
		"product_id":    filter.ProductID,
		"identity_type": filter.IdentityType,
		"search":        filter.Search,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.db.Model(&model.ProductIdentity{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.IdentityType != nil {
		query = query.Where("identity_type = ?", *filter.IdentityType)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR upis_h LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count product identities", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var identities []model.ProductIdentity
	if err := query.Order("product_id ASC, identity_type ASC, lci ASC").Find(&identities).Error; err != nil {
		logger.Error("Failed to find product identities", err)
		return nil, 0, err
	}

	return identities, total, nil
}

func (r *identityRepository) FindByID(id uint) (*model.ProductIdentity, error) {
	var identity model.ProductIdentity
	if err := r.db.Preload("Family").First(&identity, id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByUPISH(upisH string) (*model.ProductIdentity, error) {
	var identity model.ProductIdentity
	if err := r.db.Preload("Family").First(&identity, "upis_h = ?", upisH).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByFamily(productID int) ([]model.ProductIdentity, error) {
	var identities []model.ProductIdentity
	err := r.db.Where("product_id = ?", productID).
		Order("identity_type ASC, lci ASC").
		Find(&identities).Error
	if err != nil {
		return nil, err
	}
	return identities, nil
}

func (r *identityRepository) ExistsUPISH(upisH string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.ProductIdentity{}).
		Where("upis_h = ?", upisH).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextLCI returns the next free local component index for a family,
// counting only Part identities.
func (r *identityRepository) NextLCI(productID int) (int, error) {
	var next int
	err := r.db.Model(&model.ProductIdentity{}).
		Where("product_id = ? AND identity_type = ?", productID, sku.TypePart).
		Select("COALESCE(MAX(lci), 0) + 1").
		Scan(&next).Error
	if err != nil {
		logger.Error("Failed to compute next lci", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return next, nil
}

func (r *identityRepository) Update(identity *model.ProductIdentity) error {
	logger.Debug("Updating product identity in database", map[string]interface{}{
		"identity_id": identity.ID,
		"upis_h":      identity.UPISH,
	})

	if err := r.db.Save(identity).Error; err != nil {
		logger.Error("Failed to update product identity in database", err, map[string]interface{}{
			"identity_id": identity.ID,
		})
		return err
	}
	return nil
}

func (r *identityRepository) Delete(id uint) error {
	logger.Debug("Deleting product identity from database", map[string]interface{}{
		"identity_id": id,
	})

	if err := r.db.Delete(&model.ProductIdentity{}, id).Error; err != nil {
		logger.Error("Failed to delete product identity from database", err, map[string]interface{}{
			"identity_id": id,
		})
		return err
	}
	return nil
}
