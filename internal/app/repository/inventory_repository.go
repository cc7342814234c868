package repository

import (
	"time"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
	"gorm.io/gorm"
)

type InventoryFilter struct {
	VariantID *uint
	Status    *model.InventoryStatus
	Location  *string
	Limit     int
	Offset    int
}

// InventoryItemUpdate carries the mutable descriptive fields of an
// item. Status never travels through here: lifecycle moves go through
// the named transition methods so their guards cannot be bypassed.
type InventoryItemUpdate struct {
	SerialNumber *string
	LocationCode *string
	CostBasis    *float64
	Notes        *string
}

type InventoryRepository interface {
	Create(item *model.InventoryItem) error
	CreateBatch(items []model.InventoryItem) error
	FindAll(filter InventoryFilter) ([]model.InventoryItem, int64, error)
	FindByID(id uint) (*model.InventoryItem, error)
	FindBySerial(serialNumber string) (*model.InventoryItem, error)
	Update(id uint, update InventoryItemUpdate) error
	Reserve(id uint) (bool, error)
	Sell(id uint) (bool, error)
	SetStatus(id uint, status model.InventoryStatus) error
	MoveLocation(ids []uint, location string) (int64, error)
	CountByStatus(variantID *uint) (map[model.InventoryStatus]int64, error)
	TotalValue(variantID *uint, status *model.InventoryStatus) (float64, error)
	Delete(id uint) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(item *model.InventoryItem) error {
	logger.Debug("Creating inventory item in database", map[string]interface{}{
		"variant_id":    item.VariantID,
		"serial_number": item.SerialNumber,
		"status":        item.Status,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create inventory item in database", err, map[string]interface{}{
			"variant_id":    item.VariantID,
			"serial_number": item.SerialNumber,
		})
		return err
	}
	return nil
}

// CreateBatch inserts a receiving batch atomically.
func (r *inventoryRepository) CreateBatch(items []model.InventoryItem) error {
	logger.Debug("Creating inventory batch in database", map[string]interface{}{
		"count": len(items),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				logger.Error("Failed to create inventory batch item", err, map[string]interface{}{
					"index":      i,
					"variant_id": items[i].VariantID,
				})
				return err
			}
		}
		return nil
	})
}

func (r *inventoryRepository) FindAll(filter InventoryFilter) ([]model.InventoryItem, int64, error) {
	logger.Debug("Finding inventory items with filter", map[string]interface{}{
		"variant_id": filter.VariantID,
		"status":     filter.Status,
		"location":   filter.Location,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})

	query := r.db.Model(&model.InventoryItem{}).Preload("Variant")

	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Location != nil {
		query = query.Where("location_code = ?", *filter.Location)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count inventory items", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []model.InventoryItem
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to find inventory items", err)
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) FindByID(id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.Preload("Variant").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindBySerial(serialNumber string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.Preload("Variant").First(&item, "serial_number = ?", serialNumber).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Update(id uint, update InventoryItemUpdate) error {
	updates := map[string]interface{}{}
	if update.SerialNumber != nil {
		updates["serial_number"] = *update.SerialNumber
	}
	if update.LocationCode != nil {
		updates["location_code"] = *update.LocationCode
	}
	if update.CostBasis != nil {
		updates["cost_basis"] = *update.CostBasis
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&model.InventoryItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update inventory item", result.Error, map[string]interface{}{
			"item_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reserve moves an AVAILABLE item to RESERVED. The status guard sits
// in the UPDATE itself, so two concurrent callers cannot both win.
// Returns false when the item was not in a reservable state.
func (r *inventoryRepository) Reserve(id uint) (bool, error) {
	result := r.db.Model(&model.InventoryItem{}).
		Where("id = ? AND status = ?", id, model.StatusAvailable).
		Update("status", model.StatusReserved)
	if result.Error != nil {
		logger.Error("Failed to reserve inventory item", result.Error, map[string]interface{}{
			"item_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Sell moves an AVAILABLE or RESERVED item to SOLD and stamps sold_at.
func (r *inventoryRepository) Sell(id uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.InventoryItem{}).
		Where("id = ? AND status IN ?", id, []model.InventoryStatus{model.StatusAvailable, model.StatusReserved}).
		Updates(map[string]interface{}{
			"status":  model.StatusSold,
			"sold_at": &now,
		})
	if result.Error != nil {
		logger.Error("Failed to sell inventory item", result.Error, map[string]interface{}{
			"item_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetStatus applies an unguarded status write. Callers are the named
// service transitions (RMA, damage, restock) that validate the source
// state themselves.
func (r *inventoryRepository) SetStatus(id uint, status model.InventoryStatus) error {
	result := r.db.Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to set inventory item status", result.Error, map[string]interface{}{
			"item_id": id,
			"status":  status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepository) MoveLocation(ids []uint, location string) (int64, error) {
	result := r.db.Model(&model.InventoryItem{}).
		Where("id IN ?", ids).
		Update("location_code", location)
	if result.Error != nil {
		logger.Error("Failed to move inventory items", result.Error, map[string]interface{}{
			"count":    len(ids),
			"location": location,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByStatus returns a count per status, including zeroes for
// statuses with no rows.
func (r *inventoryRepository) CountByStatus(variantID *uint) (map[model.InventoryStatus]int64, error) {
	type row struct {
		Status model.InventoryStatus
		Count  int64
	}

	query := r.db.Model(&model.InventoryItem{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to count inventory by status", err)
		return nil, err
	}

	counts := make(map[model.InventoryStatus]int64, len(model.InventoryStatuses))
	for _, status := range model.InventoryStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TotalValue sums cost_basis, optionally scoped to one variant or
// one status.
func (r *inventoryRepository) TotalValue(variantID *uint, status *model.InventoryStatus) (float64, error) {
	query := r.db.Model(&model.InventoryItem{}).
		Select("COALESCE(SUM(cost_basis), 0)")
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total float64
	if err := query.Scan(&total).Error; err != nil {
		logger.Error("Failed to compute inventory value", err)
		return 0, err
	}
	return total, nil
}

func (r *inventoryRepository) Delete(id uint) error {
	logger.Debug("Deleting inventory item from database", map[string]interface{}{
		"item_id": id,
	})

	if err := r.db.Delete(&model.InventoryItem{}, id).Error; err != nil {
		logger.Error("Failed to delete inventory item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}
	return nil
}
