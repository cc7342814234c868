package service

import (
	"errors"
	"strings"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/websocket"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound      = errors.New("product variant not found")
	ErrVariantExists        = errors.New("product variant already exists")
	ErrVariantInactive      = errors.New("product variant is inactive")
	ErrInvalidConditionCode = errors.New("invalid condition code")
	ErrInvalidSyncStatus    = errors.New("invalid sync status")
)

var knownSyncStatuses = map[model.ZohoSyncStatus]bool{
	model.ZohoSyncPending: true,
	model.ZohoSyncSynced:  true,
	model.ZohoSyncError:   true,
	model.ZohoSyncDirty:   true,
}

type CreateVariantInput struct {
	IdentityID    uint
	ColorCode     *string
	ConditionCode *sku.ConditionCode
	Price         *float64
}

type UpdateVariantInput struct {
	Price          *float64
	ExternalItemID *string
	IsActive       *bool
	SyncStatus     *model.ZohoSyncStatus
}

type VariantService interface {
	CreateVariant(input CreateVariantInput) (*model.ProductVariant, error)
	ListVariants(filter repository.VariantFilter) ([]model.ProductVariant, int64, error)
	GetVariant(id uint) (*model.ProductVariant, error)
	GetVariantBySKU(fullSKU string) (*model.ProductVariant, error)
	GetVariantByExternalItemID(externalItemID string) (*model.ProductVariant, error)
	ListIdentityVariants(identityID uint, includeInactive bool) ([]model.ProductVariant, error)
	PendingSync(limit int) ([]model.ProductVariant, error)
	SetSyncStatus(id uint, status model.ZohoSyncStatus) (*model.ProductVariant, error)
	UpdateVariant(id uint, input UpdateVariantInput) (*model.ProductVariant, error)
	DeactivateVariant(id uint) error
}

type variantService struct {
	variantRepo  repository.VariantRepository
	identityRepo repository.IdentityRepository
}

func NewVariantService(
	variantRepo repository.VariantRepository,
	identityRepo repository.IdentityRepository,
) VariantService {
	return &variantService{
		variantRepo:  variantRepo,
		identityRepo: identityRepo,
	}
}

func (s *variantService) CreateVariant(input CreateVariantInput) (*model.ProductVariant, error) {
	logger.Debug("Creating product variant", map[string]interface{}{
		"identity_id":    input.IdentityID,
		"color_code":     input.ColorCode,
		"condition_code": input.ConditionCode,
	})

	identity, err := s.identityRepo.FindByID(input.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	var colorCode *string
	if input.ColorCode != nil && *input.ColorCode != "" {
		upper := strings.ToUpper(*input.ColorCode)
		colorCode = &upper
	}

	if input.ConditionCode != nil &&
		*input.ConditionCode != sku.ConditionNew &&
		*input.ConditionCode != sku.ConditionRefurbished {
		return nil, ErrInvalidConditionCode
	}

	// Inactive duplicates block creation too; the right move there is
	// reactivating the old variant.
	existing, err := s.variantRepo.FindDuplicate(input.IdentityID, colorCode, input.ConditionCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Debug("Variant already exists for identity", map[string]interface{}{
			"identity_id": input.IdentityID,
			"variant_id":  existing.ID,
			"is_active":   existing.IsActive,
		})
		return nil, ErrVariantExists
	}

	variant := &model.ProductVariant{
		IdentityID:    input.IdentityID,
		ColorCode:     colorCode,
		ConditionCode: input.ConditionCode,
		FullSKU:       sku.ComposeFullSKU(identity.UPISH, derefString(colorCode), input.ConditionCode),
		Price:         input.Price,
		IsActive:      true,
		SyncStatus:    model.ZohoSyncPending,
	}

	if err := s.variantRepo.Create(variant); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrVariantExists
		}
		return nil, err
	}

	logger.Info("Product variant created", map[string]interface{}{
		"variant_id": variant.ID,
		"full_sku":   variant.FullSKU,
	})

	websocket.Publish(websocket.EventVariantCreated, map[string]interface{}{
		"variant_id": variant.ID,
		"full_sku":   variant.FullSKU,
	})
	return variant, nil
}

func (s *variantService) ListVariants(filter repository.VariantFilter) ([]model.ProductVariant, int64, error) {
	return s.variantRepo.FindAll(filter)
}

func (s *variantService) GetVariant(id uint) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return variant, nil
}

func (s *variantService) GetVariantBySKU(fullSKU string) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindBySKU(fullSKU)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return variant, nil
}

func (s *variantService) GetVariantByExternalItemID(externalItemID string) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindByExternalItemID(externalItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return variant, nil
}

// PendingSync returns active variants in PENDING or DIRTY state, oldest
// edit first.
func (s *variantService) PendingSync(limit int) ([]model.ProductVariant, error) {
	return s.variantRepo.FindPendingSync(limit)
}

// SetSyncStatus records the outcome of a sync pass through a targeted
// update, without rewriting the rest of the row.
func (s *variantService) SetSyncStatus(id uint, status model.ZohoSyncStatus) (*model.ProductVariant, error) {
	if !knownSyncStatuses[status] {
		return nil, ErrInvalidSyncStatus
	}

	if err := s.variantRepo.SetSyncStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	variant, err := s.GetVariant(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Product variant sync status set", map[string]interface{}{
		"variant_id":  id,
		"sync_status": status,
	})

	websocket.Publish(websocket.EventVariantUpdated, map[string]interface{}{
		"variant_id":  variant.ID,
		"full_sku":    variant.FullSKU,
		"sync_status": variant.SyncStatus,
	})
	return variant, nil
}

func (s *variantService) ListIdentityVariants(identityID uint, includeInactive bool) ([]model.ProductVariant, error) {
	if _, err := s.identityRepo.FindByID(identityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return s.variantRepo.FindByIdentity(identityID, includeInactive)
}

// UpdateVariant honors mutable fields only. The SKU never changes:
// it was frozen at creation. A price edit on a synced variant drops
// the sync status to DIRTY so the next sync pass picks it up.
func (s *variantService) UpdateVariant(id uint, input UpdateVariantInput) (*model.ProductVariant, error) {
	variant, err := s.GetVariant(id)
	if err != nil {
		return nil, err
	}

	priceChanged := false
	if input.Price != nil {
		if variant.Price == nil || *variant.Price != *input.Price {
			priceChanged = true
		}
		variant.Price = input.Price
	}
	if input.ExternalItemID != nil {
		variant.ExternalItemID = input.ExternalItemID
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if input.SyncStatus != nil {
		variant.SyncStatus = *input.SyncStatus
	} else if priceChanged && variant.SyncStatus == model.ZohoSyncSynced {
		variant.SyncStatus = model.ZohoSyncDirty
	}

	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}

	websocket.Publish(websocket.EventVariantUpdated, map[string]interface{}{
		"variant_id":  variant.ID,
		"full_sku":    variant.FullSKU,
		"sync_status": variant.SyncStatus,
	})
	return variant, nil
}

func (s *variantService) DeactivateVariant(id uint) error {
	if _, err := s.GetVariant(id); err != nil {
		return err
	}

	if err := s.variantRepo.Deactivate(id); err != nil {
		return err
	}

	logger.Info("Product variant deactivated", map[string]interface{}{
		"variant_id": id,
	})
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
