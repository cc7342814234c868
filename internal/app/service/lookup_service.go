package service

import (
	"errors"
	"strings"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

var (
	ErrBrandNotFound         = errors.New("brand not found")
	ErrBrandExists           = errors.New("brand already exists")
	ErrColorNotFound         = errors.New("color not found")
	ErrConditionNotFound     = errors.New("condition not found")
	ErrLookupExists          = errors.New("lookup entry already exists")
	ErrLCIDefinitionNotFound = errors.New("lci definition not found")
)

type LookupService interface {
	CreateBrand(name string) (*model.Brand, error)
	ListBrands() ([]model.Brand, error)
	DeleteBrand(id uint) error

	ListColors() ([]model.Color, error)
	CreateColor(code, name string) (*model.Color, error)
	DeleteColor(id uint) error

	ListConditions() ([]model.Condition, error)
	CreateCondition(code, name string, description *string) (*model.Condition, error)
	DeleteCondition(id uint) error

	CreateLCIDefinition(productID, lci int, description string) (*model.LCIDefinition, error)
	ListLCIDefinitions(productID int) ([]model.LCIDefinition, error)
	DeleteLCIDefinition(id uint) error
}

type lookupService struct {
	lookupRepo repository.LookupRepository
	familyRepo repository.FamilyRepository
}

func NewLookupService(
	lookupRepo repository.LookupRepository,
	familyRepo repository.FamilyRepository,
) LookupService {
	return &lookupService{
		lookupRepo: lookupRepo,
		familyRepo: familyRepo,
	}
}

func (s *lookupService) CreateBrand(name string) (*model.Brand, error) {
	if _, err := s.lookupRepo.FindBrandByName(name); err == nil {
		return nil, ErrBrandExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	brand := &model.Brand{Name: name}
	if err := s.lookupRepo.CreateBrand(brand); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrBrandExists
		}
		return nil, err
	}

	logger.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
	})
	return brand, nil
}

func (s *lookupService) ListBrands() ([]model.Brand, error) {
	return s.lookupRepo.FindBrands()
}

func (s *lookupService) DeleteBrand(id uint) error {
	if _, err := s.lookupRepo.FindBrandByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return err
	}
	return s.lookupRepo.DeleteBrand(id)
}

func (s *lookupService) ListColors() ([]model.Color, error) {
	return s.lookupRepo.FindColors()
}

func (s *lookupService) CreateColor(code, name string) (*model.Color, error) {
	code = strings.ToUpper(code)

	if _, err := s.lookupRepo.FindColorByCode(code); err == nil {
		return nil, ErrLookupExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	color := &model.Color{Code: code, Name: name}
	if err := s.lookupRepo.CreateColor(color); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrLookupExists
		}
		return nil, err
	}
	return color, nil
}

func (s *lookupService) DeleteColor(id uint) error {
	if _, err := s.lookupRepo.FindColorByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColorNotFound
		}
		return err
	}
	return s.lookupRepo.DeleteColor(id)
}

func (s *lookupService) ListConditions() ([]model.Condition, error) {
	return s.lookupRepo.FindConditions()
}

func (s *lookupService) CreateCondition(code, name string, description *string) (*model.Condition, error) {
	code = strings.ToUpper(code)

	if _, err := s.lookupRepo.FindConditionByCode(code); err == nil {
		return nil, ErrLookupExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	condition := &model.Condition{Code: code, Name: name, Description: description}
	if err := s.lookupRepo.CreateCondition(condition); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrLookupExists
		}
		return nil, err
	}
	return condition, nil
}

func (s *lookupService) DeleteCondition(id uint) error {
	if _, err := s.lookupRepo.FindConditionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConditionNotFound
		}
		return err
	}
	return s.lookupRepo.DeleteCondition(id)
}

func (s *lookupService) CreateLCIDefinition(productID, lci int, description string) (*model.LCIDefinition, error) {
	exists, err := s.familyRepo.Exists(productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFamilyNotFound
	}

	if lci < sku.LCIMin || lci > sku.LCIMax {
		return nil, ErrLCIOutOfRange
	}

	def := &model.LCIDefinition{
		ProductID:   productID,
		LCI:         lci,
		Description: description,
	}
	if err := s.lookupRepo.CreateLCIDefinition(def); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrLookupExists
		}
		return nil, err
	}
	return def, nil
}

func (s *lookupService) ListLCIDefinitions(productID int) ([]model.LCIDefinition, error) {
	exists, err := s.familyRepo.Exists(productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFamilyNotFound
	}
	return s.lookupRepo.FindLCIDefinitions(productID)
}

func (s *lookupService) DeleteLCIDefinition(id uint) error {
	return s.lookupRepo.DeleteLCIDefinition(id)
}
