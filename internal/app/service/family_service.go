package service

import (
	"errors"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

var (
	ErrFamilyNotFound      = errors.New("product family not found")
	ErrFamilyExists        = errors.New("product family already exists")
	ErrFamilyHasIdentities = errors.New("product family still has identities")
	ErrProductIDOutOfRange = errors.New("product id out of range")
	ErrProductIDsExhausted = errors.New("product id space exhausted")
)

type CreateFamilyInput struct {
	// ProductID is optional; when nil the next free id is assigned.
	ProductID           *int
	BaseName            string
	Description         *string
	BrandID             *uint
	DimensionLength     *float64
	DimensionWidth      *float64
	DimensionHeight     *float64
	Weight              *float64
	KitIncludedProducts *string
}

type UpdateFamilyInput struct {
	BaseName            *string
	Description         *string
	BrandID             *uint
	DimensionLength     *float64
	DimensionWidth      *float64
	DimensionHeight     *float64
	Weight              *float64
	KitIncludedProducts *string
}

type FamilyService interface {
	CreateFamily(input CreateFamilyInput) (*model.ProductFamily, error)
	ListFamilies(filter repository.FamilyFilter) ([]model.ProductFamily, int64, error)
	GetFamily(productID int) (*model.ProductFamily, error)
	CountIdentities(productID int) (int64, error)
	UpdateFamily(productID int, input UpdateFamilyInput) (*model.ProductFamily, error)
	DeleteFamily(productID int, force bool) error
}

type familyService struct {
	familyRepo repository.FamilyRepository
}

func NewFamilyService(familyRepo repository.FamilyRepository) FamilyService {
	return &familyService{familyRepo: familyRepo}
}

func (s *familyService) CreateFamily(input CreateFamilyInput) (*model.ProductFamily, error) {
	logger.Debug("Creating product family", map[string]interface{}{
		"product_id": input.ProductID,
		"base_name":  input.BaseName,
	})

	var productID int
	if input.ProductID != nil {
		productID = *input.ProductID
		if productID < 0 || productID > sku.ProductIDMax {
			return nil, ErrProductIDOutOfRange
		}

		exists, err := s.familyRepo.Exists(productID)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Debug("Product id already taken", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrFamilyExists
		}
	} else {
		next, err := s.familyRepo.NextProductID()
		if err != nil {
			return nil, err
		}
		if next > sku.ProductIDMax {
			return nil, ErrProductIDsExhausted
		}
		productID = next
	}

	family := &model.ProductFamily{
		ProductID:           productID,
		BaseName:            input.BaseName,
		Description:         input.Description,
		BrandID:             input.BrandID,
		DimensionLength:     input.DimensionLength,
		DimensionWidth:      input.DimensionWidth,
		DimensionHeight:     input.DimensionHeight,
		Weight:              input.Weight,
		KitIncludedProducts: input.KitIncludedProducts,
	}

	if err := s.familyRepo.Create(family); err != nil {
		return nil, err
	}

	logger.Info("Product family created", map[string]interface{}{
		"product_id": family.ProductID,
		"base_name":  family.BaseName,
	})
	return family, nil
}

func (s *familyService) ListFamilies(filter repository.FamilyFilter) ([]model.ProductFamily, int64, error) {
	return s.familyRepo.FindAll(filter)
}

func (s *familyService) GetFamily(productID int) (*model.ProductFamily, error) {
	family, err := s.familyRepo.FindByProductID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}
	return family, nil
}

func (s *familyService) UpdateFamily(productID int, input UpdateFamilyInput) (*model.ProductFamily, error) {
	family, err := s.GetFamily(productID)
	if err != nil {
		return nil, err
	}

	if input.BaseName != nil {
		family.BaseName = *input.BaseName
	}
	if input.Description != nil {
		family.Description = input.Description
	}
	if input.BrandID != nil {
		family.BrandID = input.BrandID
	}
	if input.DimensionLength != nil {
		family.DimensionLength = input.DimensionLength
	}
	if input.DimensionWidth != nil {
		family.DimensionWidth = input.DimensionWidth
	}
	if input.DimensionHeight != nil {
		family.DimensionHeight = input.DimensionHeight
	}
	if input.Weight != nil {
		family.Weight = input.Weight
	}
	if input.KitIncludedProducts != nil {
		family.KitIncludedProducts = input.KitIncludedProducts
	}

	if err := s.familyRepo.Update(family); err != nil {
		return nil, err
	}
	return family, nil
}

func (s *familyService) CountIdentities(productID int) (int64, error) {
	return s.familyRepo.CountIdentities(productID)
}

// DeleteFamily removes a family. Without force the delete is refused
// while identities still exist under the family.
func (s *familyService) DeleteFamily(productID int, force bool) error {
	if _, err := s.GetFamily(productID); err != nil {
		return err
	}

	if !force {
		count, err := s.familyRepo.CountIdentities(productID)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Debug("Refusing family delete with live identities", map[string]interface{}{
				"product_id": productID,
				"identities": count,
			})
			return ErrFamilyHasIdentities
		}
	}

	if err := s.familyRepo.Delete(productID); err != nil {
		return err
	}

	logger.Info("Product family deleted", map[string]interface{}{
		"product_id": productID,
		"force":      force,
	})
	return nil
}
