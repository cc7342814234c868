package repository

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

type BundleRepository interface {
	Create(component *model.BundleComponent) error
	FindByID(id uint) (*model.BundleComponent, error)
	FindComponents(parentIdentityID uint) ([]model.BundleComponent, error)
	FindParents(childIdentityID uint) ([]model.BundleComponent, error)
	Exists(parentIdentityID, childIdentityID uint) (bool, error)
	IsReachable(fromIdentityID, toIdentityID uint) (bool, error)
	Update(component *model.BundleComponent) error
	Delete(id uint) error
	DeleteByIdentity(identityID uint) error
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) Create(component *model.BundleComponent) error {
	logger.Debug("Creating bundle component in database", map[string]interface{}{
		"parent_identity_id": component.ParentIdentityID,
		"child_identity_id":  component.ChildIdentityID,
		"quantity":           component.Quantity,
		"role":               component.Role,
	})

	if err := r.db.Create(component).Error; err != nil {
		logger.Error("Failed to create bundle component in database", err, map[string]interface{}{
			"parent_identity_id": component.ParentIdentityID,
			"child_identity_id":  component.ChildIdentityID,
		})
		return err
	}
	return nil
}

func (r *bundleRepository) FindByID(id uint) (*model.BundleComponent, error) {
	var component model.BundleComponent
	if err := r.db.Preload("Parent").Preload("Child").First(&component, id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *bundleRepository) FindComponents(parentIdentityID uint) ([]model.BundleComponent, error) {
	var components []model.BundleComponent
	err := r.db.Preload("Child").
		Where("parent_identity_id = ?", parentIdentityID).
		Order("role ASC, id ASC").
		Find(&components).Error
	if err != nil {
		logger.Error("Failed to find bundle components", err, map[string]interface{}{
			"parent_identity_id": parentIdentityID,
		})
		return nil, err
	}
	return components, nil
}

func (r *bundleRepository) FindParents(childIdentityID uint) ([]model.BundleComponent, error) {
	var components []model.BundleComponent
	err := r.db.Preload("Parent").
		Where("child_identity_id = ?", childIdentityID).
		Order("id ASC").
		Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (r *bundleRepository) Exists(parentIdentityID, childIdentityID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.BundleComponent{}).
		Where("parent_identity_id = ? AND child_identity_id = ?", parentIdentityID, childIdentityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsReachable walks the component graph from one identity and reports
// whether another can be reached. Used to reject edges that would
// close a cycle before they hit the database.
func (r *bundleRepository) IsReachable(fromIdentityID, toIdentityID uint) (bool, error) {
	if fromIdentityID == toIdentityID {
		return true, nil
	}

	visited := map[uint]bool{fromIdentityID: true}
	frontier := []uint{fromIdentityID}

	for len(frontier) > 0 {
		var children []uint
		err := r.db.Model(&model.BundleComponent{}).
			Where("parent_identity_id IN ?", frontier).
			Pluck("child_identity_id", &children).Error
		if err != nil {
			logger.Error("Failed to walk bundle graph", err, map[string]interface{}{
				"from_identity_id": fromIdentityID,
			})
			return false, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if child == toIdentityID {
				return true, nil
			}
			if !visited[child] {
				visited[child] = true
				frontier = append(frontier, child)
			}
		}
	}

	return false, nil
}

func (r *bundleRepository) Update(component *model.BundleComponent) error {
	logger.Debug("Updating bundle component in database", map[string]interface{}{
		"component_id": component.ID,
	})

	if err := r.db.Save(component).Error; err != nil {
		logger.Error("Failed to update bundle component in database", err, map[string]interface{}{
			"component_id": component.ID,
		})
		return err
	}
	return nil
}

func (r *bundleRepository) Delete(id uint) error {
	logger.Debug("Deleting bundle component from database", map[string]interface{}{
		"component_id": id,
	})

	if err := r.db.Delete(&model.BundleComponent{}, id).Error; err != nil {
		logger.Error("Failed to delete bundle component from database", err, map[string]interface{}{
			"component_id": id,
		})
		return err
	}
	return nil
}

// DeleteByIdentity drops every edge touching an identity, on either
// the parent or the child side.
func (r *bundleRepository) DeleteByIdentity(identityID uint) error {
	logger.Debug("Deleting bundle edges for identity", map[string]interface{}{
		"identity_id": identityID,
	})

	err := r.db.
		Where("parent_identity_id = ? OR child_identity_id = ?", identityID, identityID).
		Delete(&model.BundleComponent{}).Error
	if err != nil {
		logger.Error("Failed to delete bundle edges for identity", err, map[string]interface{}{
			"identity_id": identityID,
		})
		return err
	}
	return nil
}
