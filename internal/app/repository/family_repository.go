package repository

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

type FamilyFilter struct {
	Search  string
	BrandID *uint
	Limit   int
	Offset  int
}

type FamilyRepository interface {
	Create(family *model.ProductFamily) error
	FindAll(filter FamilyFilter) ([]model.ProductFamily, int64, error)
	FindByProductID(productID int) (*model.ProductFamily, error)
	Exists(productID int) (bool, error)
	NextProductID() (int, error)
	CountIdentities(productID int) (int64, error)
	Update(family *model.ProductFamily) error
	Delete(productID int) error
}

type familyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(family *model.ProductFamily) error {
	logger.Debug("Creating product family in database", map[string]interface{}{
		"product_id": family.ProductID,
		"base_name":  family.BaseName,
	})

	if err := r.db.Create(family).Error; err != nil {
		logger.Error("Failed to create product family in database", err, map[string]interface{}{
			"product_id": family.ProductID,
			"base_name":  family.BaseName,
		})
		return err
	}
	return nil
}

func (r *familyRepository) FindAll(filter FamilyFilter) ([]model.ProductFamily, int64, error) {
	logger.Debug("Finding product families with filter", map[string]interface{}{
		"search":   filter.Search,
		"brand_id": filter.BrandID,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.db.Model(&model.ProductFamily{}).Preload("Brand")

	if filter.Search != "" {
		query = query.Where("LOWER(base_name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count product families", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var families []model.ProductFamily
	if err := query.Order("product_id ASC").Find(&families).Error; err != nil {
		logger.Error("Failed to find product families", err)
		return nil, 0, err
	}

	return families, total, nil
}

func (r *familyRepository) FindByProductID(productID int) (*model.ProductFamily, error) {
	var family model.ProductFamily
	if err := r.db.Preload("Brand").First(&family, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) Exists(productID int) (bool, error) {
	var count int64
	if err := r.db.Model(&model.ProductFamily{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextProductID returns max(product_id)+1, starting at 1 for an
// empty catalog.
func (r *familyRepository) NextProductID() (int, error) {
	var next int
	err := r.db.Model(&model.ProductFamily{}).
		Select("COALESCE(MAX(product_id), 0) + 1").
		Scan(&next).Error
	if err != nil {
		logger.Error("Failed to compute next product id", err)
		return 0, err
	}
	return next, nil
}

func (r *familyRepository) CountIdentities(productID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductIdentity{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *familyRepository) Update(family *model.ProductFamily) error {
	logger.Debug("Updating product family in database", map[string]interface{}{
		"product_id": family.ProductID,
	})

	if err := r.db.Save(family).Error; err != nil {
		logger.Error("Failed to update product family in database", err, map[string]interface{}{
			"product_id": family.ProductID,
		})
		return err
	}
	return nil
}

// Delete removes the family row. Identities, variants, listings and
// inventory rows follow through ON DELETE CASCADE.
func (r *familyRepository) Delete(productID int) error {
	logger.Debug("Deleting product family from database", map[string]interface{}{
		"product_id": productID,
	})

	if err := r.db.Delete(&model.ProductFamily{}, "product_id = ?", productID).Error; err != nil {
		logger.Error("Failed to delete product family from database", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}
