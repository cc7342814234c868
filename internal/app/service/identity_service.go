package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/websocket"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

var (
	ErrIdentityNotFound    = errors.New("product identity not found")
	ErrIdentityExists      = errors.New("product identity already exists")
	ErrInvalidIdentityType = errors.New("invalid identity type")
	ErrLCINotAllowed       = errors.New("lci is only valid on part identities")
	ErrLCIOutOfRange       = errors.New("lci out of range")
	ErrLCIExhausted        = errors.New("no free lci left in family")
	ErrIdentityHasVariants = errors.New("product identity still has variants")
)

type CreateIdentityInput struct {
	ProductID    int
	IdentityType sku.IdentityType
	// LCI is honored only for Part identities; nil means auto-assign.
	LCI           *int
	Name          string
	Description   *string
	PhysicalClass *model.PhysicalClass
}

type UpdateIdentityInput struct {
	Name          *string
	Description   *string
	PhysicalClass *model.PhysicalClass
}

type IdentityService interface {
	CreateIdentity(input CreateIdentityInput) (*model.ProductIdentity, error)
	ListIdentities(filter repository.IdentityFilter) ([]model.ProductIdentity, int64, error)
	GetIdentity(id uint) (*model.ProductIdentity, error)
	GetIdentityByUPISH(upisH string) (*model.ProductIdentity, error)
	ListFamilyIdentities(productID int) ([]model.ProductIdentity, error)
	UpdateIdentity(id uint, input UpdateIdentityInput) (*model.ProductIdentity, error)
	DeleteIdentity(id uint, force bool) error
}

type identityService struct {
	identityRepo repository.IdentityRepository
	familyRepo   repository.FamilyRepository
	variantRepo  repository.VariantRepository
	bundleRepo   repository.BundleRepository

	// lciLocks serializes lci allocation per family. The unique index
	// on (product_id, identity_type, lci) still backs this up if two
	// processes race.
	lciLocks sync.Map
}

func NewIdentityService(
	identityRepo repository.IdentityRepository,
	familyRepo repository.FamilyRepository,
	variantRepo repository.VariantRepository,
	bundleRepo repository.BundleRepository,
) IdentityService {
	return &identityService{
		identityRepo: identityRepo,
		familyRepo:   familyRepo,
		variantRepo:  variantRepo,
		bundleRepo:   bundleRepo,
	}
}

func (s *identityService) familyLock(productID int) *sync.Mutex {
	lock, _ := s.lciLocks.LoadOrStore(productID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *identityService) CreateIdentity(input CreateIdentityInput) (*model.ProductIdentity, error) {
	logger.Debug("Creating product identity", map[string]interface{}{
		"product_id":    input.ProductID,
		"identity_type": input.IdentityType,
		"lci":           input.LCI,
		"name":          input.Name,
	})

	exists, err := s.familyRepo.Exists(input.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFamilyNotFound
	}

	if !sku.ValidType(input.IdentityType) {
		return nil, ErrInvalidIdentityType
	}

	if input.IdentityType != sku.TypePart && input.LCI != nil {
		return nil, ErrLCINotAllowed
	}

	var lci *int
	if input.IdentityType == sku.TypePart {
		lock := s.familyLock(input.ProductID)
		lock.Lock()
		defer lock.Unlock()

		if input.LCI != nil {
			if *input.LCI < sku.LCIMin || *input.LCI > sku.LCIMax {
				return nil, ErrLCIOutOfRange
			}
			value := *input.LCI
			lci = &value
		} else {
			next, err := s.identityRepo.NextLCI(input.ProductID)
			if err != nil {
				return nil, err
			}
			if next > sku.LCIMax {
				return nil, ErrLCIExhausted
			}
			lci = &next
		}
	}

	upisH := sku.GenerateUPISH(input.ProductID, input.IdentityType, lci)

	taken, err := s.identityRepo.ExistsUPISH(upisH)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Debug("UPIS-H already registered", map[string]interface{}{
			"upis_h": upisH,
		})
		return nil, ErrIdentityExists
	}

	identity := &model.ProductIdentity{
		ProductID:     input.ProductID,
		IdentityType:  input.IdentityType,
		LCI:           lci,
		UPISH:         upisH,
		HexSignature:  sku.GenerateHexSignature(input.ProductID, input.IdentityType, lci),
		Name:          input.Name,
		Description:   input.Description,
		PhysicalClass: input.PhysicalClass,
	}

	if err := s.identityRepo.Create(identity); err != nil {
		// A concurrent writer from another process may have taken the
		// same slot between the check and the insert.
		errInfo := err.Error()
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			containsDuplicateHint(errInfo) {
			return nil, ErrIdentityExists
		}
		return nil, err
	}

	logger.Info("Product identity created", map[string]interface{}{
		"identity_id": identity.ID,
		"upis_h":      identity.UPISH,
		"hex":         identity.HexSignature,
	})

	websocket.Publish(websocket.EventIdentityCreated, map[string]interface{}{
		"identity_id": identity.ID,
		"product_id":  identity.ProductID,
		"upis_h":      identity.UPISH,
	})
	return identity, nil
}

func (s *identityService) ListIdentities(filter repository.IdentityFilter) ([]model.ProductIdentity, int64, error) {
	return s.identityRepo.FindAll(filter)
}

func (s *identityService) GetIdentity(id uint) (*model.ProductIdentity, error) {
	identity, err := s.identityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return identity, nil
}

func (s *identityService) GetIdentityByUPISH(upisH string) (*model.ProductIdentity, error) {
	identity, err := s.identityRepo.FindByUPISH(upisH)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return identity, nil
}

func (s *identityService) ListFamilyIdentities(productID int) ([]model.ProductIdentity, error) {
	exists, err := s.familyRepo.Exists(productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFamilyNotFound
	}
	return s.identityRepo.FindByFamily(productID)
}

// UpdateIdentity touches descriptive fields only. Product id, type and
// lci are fixed at creation because UPIS-H is derived from them.
func (s *identityService) UpdateIdentity(id uint, input UpdateIdentityInput) (*model.ProductIdentity, error) {
	identity, err := s.GetIdentity(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		identity.Name = *input.Name
	}
	if input.Description != nil {
		identity.Description = input.Description
	}
	if input.PhysicalClass != nil {
		identity.PhysicalClass = input.PhysicalClass
	}

	if err := s.identityRepo.Update(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// DeleteIdentity removes an identity. Without force the delete is
// refused while variants still exist under the identity, active or
// not. With force the variants and every bundle edge touching the
// identity are removed as well.
func (s *identityService) DeleteIdentity(id uint, force bool) error {
	if _, err := s.GetIdentity(id); err != nil {
		return err
	}

	variants, err := s.variantRepo.FindByIdentity(id, true)
	if err != nil {
		return err
	}
	if len(variants) > 0 && !force {
		logger.Debug("Refusing identity delete with variants attached", map[string]interface{}{
			"identity_id": id,
			"variants":    len(variants),
		})
		return ErrIdentityHasVariants
	}

	for _, variant := range variants {
		if err := s.variantRepo.Delete(variant.ID); err != nil {
			return err
		}
	}

	if err := s.bundleRepo.DeleteByIdentity(id); err != nil {
		return err
	}

	if err := s.identityRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Product identity deleted", map[string]interface{}{
		"identity_id": id,
		"force":       force,
		"variants":    len(variants),
	})
	return nil
}

func containsDuplicateHint(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "unique failed")
}
