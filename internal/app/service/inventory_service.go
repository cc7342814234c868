package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/websocket"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound       = errors.New("inventory item not found")
	ErrSerialExists       = errors.New("serial number already registered")
	ErrTransitionNotValid = errors.New("status transition not applicable")
	ErrInvalidCostBasis   = errors.New("cost basis must not be negative")
	ErrInvalidQuantity    = errors.New("quantity out of range")
)

// maxBatchQuantity caps one bulk receive.
const maxBatchQuantity = 500

// InventorySummary reports per-status counts plus the total.
type InventorySummary struct {
	Available int64 `json:"available"`
	Reserved  int64 `json:"reserved"`
	Sold      int64 `json:"sold"`
	RMA       int64 `json:"rma"`
	Damaged   int64 `json:"damaged"`
	Total     int64 `json:"total"`
}

type ReceiveItemInput struct {
	SerialNumber string
	VariantSKU   string
	LocationCode *string
	CostBasis    *float64
	Notes        *string
}

type AddItemInput struct {
	VariantID    uint
	SerialNumber *string
	LocationCode *string
	CostBasis    *float64
	Notes        *string
}

type AddBatchInput struct {
	VariantID    uint
	Quantity     int
	LocationCode *string
	CostBasis    *float64
	Notes        *string
}

type MoveItemResult struct {
	SerialNumber     string    `json:"serial_number"`
	PreviousLocation *string   `json:"previous_location"`
	NewLocation      string    `json:"new_location"`
	MovedAt          time.Time `json:"moved_at"`
}

type InventoryService interface {
	ReceiveItem(input ReceiveItemInput) (*model.InventoryItem, error)
	AddItem(input AddItemInput) (*model.InventoryItem, error)
	AddBatch(input AddBatchInput) ([]model.InventoryItem, error)
	ListItems(filter repository.InventoryFilter) ([]model.InventoryItem, int64, error)
	GetItem(id uint) (*model.InventoryItem, error)
	GetItemBySerial(serialNumber string) (*model.InventoryItem, error)
	UpdateItem(id uint, update repository.InventoryItemUpdate) (*model.InventoryItem, error)
	Reserve(id uint) (*model.InventoryItem, error)
	Sell(id uint) (*model.InventoryItem, error)
	MarkRMA(id uint) (*model.InventoryItem, error)
	MarkDamaged(id uint) (*model.InventoryItem, error)
	Restock(id uint) (*model.InventoryItem, error)
	MoveItem(serialNumber, newLocation string) (*MoveItemResult, error)
	Audit(skuOrSerial string) ([]model.InventoryItem, error)
	Summary(ctx context.Context, variantID *uint) (*InventorySummary, error)
	TotalValue(variantID *uint, status *model.InventoryStatus) (float64, error)
	DeleteItem(id uint) error
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	variantRepo   repository.VariantRepository
	summaryTTL    time.Duration
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	variantRepo repository.VariantRepository,
	summaryTTL time.Duration,
) InventoryService {
	if summaryTTL <= 0 {
		summaryTTL = 5 * time.Minute
	}
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		variantRepo:   variantRepo,
		summaryTTL:    summaryTTL,
	}
}

// ReceiveItem registers a scanned unit at the receiving dock. The
// item lands as AVAILABLE with received_at stamped.
func (s *inventoryService) ReceiveItem(input ReceiveItemInput) (*model.InventoryItem, error) {
	logger.Debug("Receiving inventory item", map[string]interface{}{
		"serial_number": input.SerialNumber,
		"variant_sku":   input.VariantSKU,
		"location_code": input.LocationCode,
	})

	if _, err := s.inventoryRepo.FindBySerial(input.SerialNumber); err == nil {
		return nil, ErrSerialExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	variant, err := s.variantRepo.FindBySKU(input.VariantSKU)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	if input.CostBasis != nil && *input.CostBasis < 0 {
		return nil, ErrInvalidCostBasis
	}

	now := time.Now()
	serial := input.SerialNumber
	item := &model.InventoryItem{
		VariantID:    variant.ID,
		SerialNumber: &serial,
		Status:       model.StatusAvailable,
		LocationCode: input.LocationCode,
		CostBasis:    input.CostBasis,
		Notes:        input.Notes,
		ReceivedAt:   &now,
	}

	if err := s.inventoryRepo.Create(item); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrSerialExists
		}
		return nil, err
	}

	s.invalidateSummaries()
	logger.Info("Inventory item received", map[string]interface{}{
		"item_id":       item.ID,
		"serial_number": serial,
		"variant_id":    variant.ID,
	})

	websocket.Publish(websocket.EventInventoryChanged, map[string]interface{}{
		"item_id": item.ID,
		"status":  item.Status,
	})
	return item, nil
}

// AddItem creates a unit directly against a variant id, for stock
// entered outside the receiving flow.
func (s *inventoryService) AddItem(input AddItemInput) (*model.InventoryItem, error) {
	if _, err := s.variantRepo.FindByID(input.VariantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	if input.SerialNumber != nil {
		if _, err := s.inventoryRepo.FindBySerial(*input.SerialNumber); err == nil {
			return nil, ErrSerialExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if input.CostBasis != nil && *input.CostBasis < 0 {
		return nil, ErrInvalidCostBasis
	}

	now := time.Now()
	item := &model.InventoryItem{
		VariantID:    input.VariantID,
		SerialNumber: input.SerialNumber,
		Status:       model.StatusAvailable,
		LocationCode: input.LocationCode,
		CostBasis:    input.CostBasis,
		Notes:        input.Notes,
		ReceivedAt:   &now,
	}

	if err := s.inventoryRepo.Create(item); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrSerialExists
		}
		return nil, err
	}

	s.invalidateSummaries()
	return item, nil
}

// AddBatch registers a quantity of unserialized units against a
// variant in one transaction, for bulk stock that is not tracked
// per serial.
func (s *inventoryService) AddBatch(input AddBatchInput) ([]model.InventoryItem, error) {
	if input.Quantity < 1 || input.Quantity > maxBatchQuantity {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.variantRepo.FindByID(input.VariantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	if input.CostBasis != nil && *input.CostBasis < 0 {
		return nil, ErrInvalidCostBasis
	}

	now := time.Now()
	items := make([]model.InventoryItem, input.Quantity)
	for i := range items {
		items[i] = model.InventoryItem{
			VariantID:    input.VariantID,
			Status:       model.StatusAvailable,
			LocationCode: input.LocationCode,
			CostBasis:    input.CostBasis,
			Notes:        input.Notes,
			ReceivedAt:   &now,
		}
	}

	if err := s.inventoryRepo.CreateBatch(items); err != nil {
		return nil, err
	}

	s.invalidateSummaries()
	logger.Info("Inventory batch added", map[string]interface{}{
		"variant_id": input.VariantID,
		"quantity":   input.Quantity,
	})

	websocket.Publish(websocket.EventInventoryChanged, map[string]interface{}{
		"variant_id": input.VariantID,
		"quantity":   input.Quantity,
	})
	return items, nil
}

func (s *inventoryService) ListItems(filter repository.InventoryFilter) ([]model.InventoryItem, int64, error) {
	return s.inventoryRepo.FindAll(filter)
}

func (s *inventoryService) GetItem(id uint) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) GetItemBySerial(serialNumber string) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindBySerial(serialNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem edits descriptive fields. Status is deliberately not
// part of the update payload; lifecycle moves go through the named
// transitions below.
func (s *inventoryService) UpdateItem(id uint, update repository.InventoryItemUpdate) (*model.InventoryItem, error) {
	if _, err := s.GetItem(id); err != nil {
		return nil, err
	}

	if update.CostBasis != nil && *update.CostBasis < 0 {
		return nil, ErrInvalidCostBasis
	}

	if err := s.inventoryRepo.Update(id, update); err != nil {
		if containsDuplicateHint(err.Error()) {
			return nil, ErrSerialExists
		}
		return nil, err
	}
	return s.GetItem(id)
}

// Reserve holds an AVAILABLE unit for an order. The guard lives in a
// conditional UPDATE, so losing a race reports the transition as not
// applicable rather than double-reserving.
func (s *inventoryService) Reserve(id uint) (*model.InventoryItem, error) {
	ok, err := s.inventoryRepo.Reserve(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish a missing item from one in the wrong state.
		item, err := s.GetItem(id)
		if err != nil {
			return nil, err
		}
		logger.Debug("Reserve rejected by status guard", map[string]interface{}{
			"item_id": id,
			"status":  item.Status,
		})
		return nil, ErrTransitionNotValid
	}

	s.invalidateSummaries()
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Inventory item reserved", map[string]interface{}{
		"item_id": id,
	})
	websocket.Publish(websocket.EventInventoryChanged, map[string]interface{}{
		"item_id": id,
		"status":  item.Status,
	})
	return item, nil
}

// Sell finalizes an AVAILABLE or RESERVED unit and stamps sold_at.
func (s *inventoryService) Sell(id uint) (*model.InventoryItem, error) {
	ok, err := s.inventoryRepo.Sell(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		item, err := s.GetItem(id)
		if err != nil {
			return nil, err
		}
		logger.Debug("Sell rejected by status guard", map[string]interface{}{
			"item_id": id,
			"status":  item.Status,
		})
		return nil, ErrTransitionNotValid
	}

	s.invalidateSummaries()
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Inventory item sold", map[string]interface{}{
		"item_id": id,
		"sold_at": item.SoldAt,
	})
	websocket.Publish(websocket.EventInventoryChanged, map[string]interface{}{
		"item_id": id,
		"status":  item.Status,
	})
	return item, nil
}

// MarkRMA pulls a sold or reserved unit back as a customer return.
func (s *inventoryService) MarkRMA(id uint) (*model.InventoryItem, error) {
	return s.transition(id, model.StatusRMA,
		model.StatusSold, model.StatusReserved)
}

// MarkDamaged flags a unit as unsellable.
func (s *inventoryService) MarkDamaged(id uint) (*model.InventoryItem, error) {
	return s.transition(id, model.StatusDamaged,
		model.StatusAvailable, model.StatusReserved, model.StatusRMA)
}

// Restock returns a unit to the sellable pool after inspection.
func (s *inventoryService) Restock(id uint) (*model.InventoryItem, error) {
	return s.transition(id, model.StatusAvailable,
		model.StatusRMA, model.StatusDamaged, model.StatusReserved)
}

func (s *inventoryService) transition(id uint, target model.InventoryStatus, from ...model.InventoryStatus) (*model.InventoryItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if item.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Debug("Status transition not applicable", map[string]interface{}{
			"item_id": id,
			"from":    item.Status,
			"to":      target,
		})
		return nil, ErrTransitionNotValid
	}

	if err := s.inventoryRepo.SetStatus(id, target); err != nil {
		return nil, err
	}

	s.invalidateSummaries()
	item, err = s.GetItem(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Inventory item status changed", map[string]interface{}{
		"item_id": id,
		"status":  target,
	})
	websocket.Publish(websocket.EventInventoryChanged, map[string]interface{}{
		"item_id": id,
		"status":  target,
	})
	return item, nil
}

// MoveItem relocates a unit identified by its serial number.
func (s *inventoryService) MoveItem(serialNumber, newLocation string) (*MoveItemResult, error) {
	item, err := s.GetItemBySerial(serialNumber)
	if err != nil {
		return nil, err
	}

	previous := item.LocationCode
	moved, err := s.inventoryRepo.MoveLocation([]uint{item.ID}, newLocation)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return nil, ErrItemNotFound
	}

	logger.Info("Inventory item moved", map[string]interface{}{
		"serial_number": serialNumber,
		"from":          previous,
		"to":            newLocation,
	})

	return &MoveItemResult{
		SerialNumber:     serialNumber,
		PreviousLocation: previous,
		NewLocation:      newLocation,
		MovedAt:          time.Now(),
	}, nil
}

// Audit looks up stock by serial number first, then falls back to a
// full-SKU match returning every unit of that variant.
func (s *inventoryService) Audit(skuOrSerial string) ([]model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindBySerial(skuOrSerial)
	if err == nil {
		return []model.InventoryItem{*item}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	variant, err := s.variantRepo.FindBySKU(skuOrSerial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	items, _, err := s.inventoryRepo.FindAll(repository.InventoryFilter{
		VariantID: &variant.ID,
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Summary returns per-status counts, served from the Redis cache when
// a fresh entry exists.
func (s *inventoryService) Summary(ctx context.Context, variantID *uint) (*InventorySummary, error) {
	scope := "all"
	if variantID != nil {
		scope = fmt.Sprintf("variant:%d", *variantID)
	}

	if cached, ok, err := redis.GetCachedSummary(ctx, scope); err == nil && ok {
		var summary InventorySummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			logger.Debug("Serving inventory summary from cache", map[string]interface{}{
				"scope": scope,
			})
			return &summary, nil
		}
	}

	counts, err := s.inventoryRepo.CountByStatus(variantID)
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{
		Available: counts[model.StatusAvailable],
		Reserved:  counts[model.StatusReserved],
		Sold:      counts[model.StatusSold],
		RMA:       counts[model.StatusRMA],
		Damaged:   counts[model.StatusDamaged],
	}
	summary.Total = summary.Available + summary.Reserved + summary.Sold + summary.RMA + summary.Damaged

	if payload, err := json.Marshal(summary); err == nil {
		_ = redis.CacheSummary(ctx, scope, string(payload), s.summaryTTL)
	}
	return summary, nil
}

func (s *inventoryService) TotalValue(variantID *uint, status *model.InventoryStatus) (float64, error) {
	return s.inventoryRepo.TotalValue(variantID, status)
}

func (s *inventoryService) DeleteItem(id uint) error {
	if _, err := s.GetItem(id); err != nil {
		return err
	}

	if err := s.inventoryRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateSummaries()
	logger.Info("Inventory item deleted", map[string]interface{}{
		"item_id": id,
	})
	return nil
}

func (s *inventoryService) invalidateSummaries() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = redis.InvalidateSummaries(ctx)
}
