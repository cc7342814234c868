package repository

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

// LookupRepository serves the small reference tables behind catalog
// dropdowns: brands, colors, conditions and per-family LCI notes.
type LookupRepository interface {
	CreateBrand(brand *model.Brand) error
	FindBrands() ([]model.Brand, error)
	FindBrandByID(id uint) (*model.Brand, error)
	FindBrandByName(name string) (*model.Brand, error)
	DeleteBrand(id uint) error

	CreateColor(color *model.Color) error
	FindColors() ([]model.Color, error)
	FindColorByID(id uint) (*model.Color, error)
	FindColorByCode(code string) (*model.Color, error)
	DeleteColor(id uint) error

	CreateCondition(condition *model.Condition) error
	FindConditions() ([]model.Condition, error)
	FindConditionByID(id uint) (*model.Condition, error)
	FindConditionByCode(code string) (*model.Condition, error)
	DeleteCondition(id uint) error

	CreateLCIDefinition(def *model.LCIDefinition) error
	FindLCIDefinitions(productID int) ([]model.LCIDefinition, error)
	DeleteLCIDefinition(id uint) error
}

type lookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) CreateBrand(brand *model.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		logger.Error("Failed to create brand", err, map[string]interface{}{
			"name": brand.Name,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) FindBrands() ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *lookupRepository) FindBrandByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *lookupRepository) FindBrandByName(name string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *lookupRepository) DeleteBrand(id uint) error {
	if err := r.db.Delete(&model.Brand{}, id).Error; err != nil {
		logger.Error("Failed to delete brand", err, map[string]interface{}{
			"brand_id": id,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) CreateColor(color *model.Color) error {
	if err := r.db.Create(color).Error; err != nil {
		logger.Error("Failed to create color", err, map[string]interface{}{
			"code": color.Code,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) FindColors() ([]model.Color, error) {
	var colors []model.Color
	if err := r.db.Order("code ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *lookupRepository) FindColorByID(id uint) (*model.Color, error) {
	var color model.Color
	if err := r.db.First(&color, id).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *lookupRepository) FindColorByCode(code string) (*model.Color, error) {
	var color model.Color
	if err := r.db.First(&color, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *lookupRepository) DeleteColor(id uint) error {
	if err := r.db.Delete(&model.Color{}, id).Error; err != nil {
		logger.Error("Failed to delete color", err, map[string]interface{}{
			"color_id": id,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) CreateCondition(condition *model.Condition) error {
	if err := r.db.Create(condition).Error; err != nil {
		logger.Error("Failed to create condition", err, map[string]interface{}{
			"code": condition.Code,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) FindConditions() ([]model.Condition, error) {
	var conditions []model.Condition
	if err := r.db.Order("code ASC").Find(&conditions).Error; err != nil {
		return nil, err
	}
	return conditions, nil
}

func (r *lookupRepository) FindConditionByID(id uint) (*model.Condition, error) {
	var condition model.Condition
	if err := r.db.First(&condition, id).Error; err != nil {
		return nil, err
	}
	return &condition, nil
}

func (r *lookupRepository) FindConditionByCode(code string) (*model.Condition, error) {
	var condition model.Condition
	if err := r.db.First(&condition, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &condition, nil
}

func (r *lookupRepository) DeleteCondition(id uint) error {
	if err := r.db.Delete(&model.Condition{}, id).Error; err != nil {
		logger.Error("Failed to delete condition", err, map[string]interface{}{
			"condition_id": id,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) CreateLCIDefinition(def *model.LCIDefinition) error {
	if err := r.db.Create(def).Error; err != nil {
		logger.Error("Failed to create lci definition", err, map[string]interface{}{
			"product_id": def.ProductID,
			"lci":        def.LCI,
		})
		return err
	}
	return nil
}

func (r *lookupRepository) FindLCIDefinitions(productID int) ([]model.LCIDefinition, error) {
	var defs []model.LCIDefinition
	err := r.db.Where("product_id = ?", productID).
		Order("lci ASC").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *lookupRepository) DeleteLCIDefinition(id uint) error {
	if err := r.db.Delete(&model.LCIDefinition{}, id).Error; err != nil {
		logger.Error("Failed to delete lci definition", err, map[string]interface{}{
			"definition_id": id,
		})
		return err
	}
	return nil
}
