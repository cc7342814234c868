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
	ErrBundleComponentNotFound = errors.New("bundle component not found")
	ErrBundleNotComposite      = errors.New("parent identity is not a bundle or kit")
	ErrBundleSelfReference     = errors.New("bundle cannot contain itself")
	ErrBundleComponentExists   = errors.New("component already in bundle")
	ErrBundleCycle             = errors.New("component would create a cycle")
	ErrBundleInvalidQuantity   = errors.New("component quantity must be at least 1")
)

type AddComponentInput struct {
	ParentIdentityID uint
	ChildIdentityID  uint
	Quantity         int
	Role             model.BundleRole
}

type UpdateComponentInput struct {
	Quantity *int
	Role     *model.BundleRole
}

type BundleService interface {
	AddComponent(input AddComponentInput) (*model.BundleComponent, error)
	GetComponent(id uint) (*model.BundleComponent, error)
	ListComponents(parentIdentityID uint) ([]model.BundleComponent, error)
	ListParents(childIdentityID uint) ([]model.BundleComponent, error)
	UpdateComponent(id uint, input UpdateComponentInput) (*model.BundleComponent, error)
	RemoveComponent(id uint) error
}

type bundleService struct {
	bundleRepo   repository.BundleRepository
	identityRepo repository.IdentityRepository
}

func NewBundleService(
	bundleRepo repository.BundleRepository,
	identityRepo repository.IdentityRepository,
) BundleService {
	return &bundleService{
		bundleRepo:   bundleRepo,
		identityRepo: identityRepo,
	}
}

func (s *bundleService) AddComponent(input AddComponentInput) (*model.BundleComponent, error) {
	logger.Debug("Adding bundle component", map[string]interface{}{
		"parent_identity_id": input.ParentIdentityID,
		"child_identity_id":  input.ChildIdentityID,
		"quantity":           input.Quantity,
		"role":               input.Role,
	})

	if input.ParentIdentityID == input.ChildIdentityID {
		return nil, ErrBundleSelfReference
	}
	if input.Quantity < 1 {
		return nil, ErrBundleInvalidQuantity
	}

	parent, err := s.identityRepo.FindByID(input.ParentIdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	if !sku.IsComposite(parent.IdentityType) {
		logger.Debug("Parent identity is not composite", map[string]interface{}{
			"parent_identity_id": parent.ID,
			"identity_type":      parent.IdentityType,
		})
		return nil, ErrBundleNotComposite
	}

	if _, err := s.identityRepo.FindByID(input.ChildIdentityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	exists, err := s.bundleRepo.Exists(input.ParentIdentityID, input.ChildIdentityID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBundleComponentExists
	}

	// If the parent is reachable from the child, this edge closes a
	// loop in the component graph.
	cyclic, err := s.bundleRepo.IsReachable(input.ChildIdentityID, input.ParentIdentityID)
	if err != nil {
		return nil, err
	}
	if cyclic {
		logger.Debug("Rejecting cyclic bundle edge", map[string]interface{}{
			"parent_identity_id": input.ParentIdentityID,
			"child_identity_id":  input.ChildIdentityID,
		})
		return nil, ErrBundleCycle
	}

	role := input.Role
	if role == "" {
		role = model.RoleAccessory
	}

	component := &model.BundleComponent{
		ParentIdentityID: input.ParentIdentityID,
		ChildIdentityID:  input.ChildIdentityID,
		Quantity:         input.Quantity,
		Role:             role,
	}

	if err := s.bundleRepo.Create(component); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrBundleComponentExists
		}
		return nil, err
	}

	logger.Info("Bundle component added", map[string]interface{}{
		"component_id":       component.ID,
		"parent_identity_id": component.ParentIdentityID,
		"child_identity_id":  component.ChildIdentityID,
	})
	return component, nil
}

func (s *bundleService) GetComponent(id uint) (*model.BundleComponent, error) {
	component, err := s.bundleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleComponentNotFound
		}
		return nil, err
	}
	return component, nil
}

func (s *bundleService) ListComponents(parentIdentityID uint) ([]model.BundleComponent, error) {
	if _, err := s.identityRepo.FindByID(parentIdentityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return s.bundleRepo.FindComponents(parentIdentityID)
}

func (s *bundleService) ListParents(childIdentityID uint) ([]model.BundleComponent, error) {
	if _, err := s.identityRepo.FindByID(childIdentityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return s.bundleRepo.FindParents(childIdentityID)
}

func (s *bundleService) UpdateComponent(id uint, input UpdateComponentInput) (*model.BundleComponent, error) {
	component, err := s.bundleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleComponentNotFound
		}
		return nil, err
	}

	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, ErrBundleInvalidQuantity
		}
		component.Quantity = *input.Quantity
	}
	if input.Role != nil {
		component.Role = *input.Role
	}

	if err := s.bundleRepo.Update(component); err != nil {
		return nil, err
	}
	return component, nil
}

func (s *bundleService) RemoveComponent(id uint) error {
	if _, err := s.bundleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBundleComponentNotFound
		}
		return err
	}

	if err := s.bundleRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Bundle component removed", map[string]interface{}{
		"component_id": id,
	})
	return nil
}
