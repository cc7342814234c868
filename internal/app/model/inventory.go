package model

import (
	"time"
)

// InventoryStatus is the lifecycle state of a tracked unit.
type InventoryStatus string

const (
	StatusAvailable InventoryStatus = "AVAILABLE"
	StatusReserved  InventoryStatus = "RESERVED"
	StatusSold      InventoryStatus = "SOLD"
	StatusRMA       InventoryStatus = "RMA"
	StatusDamaged   InventoryStatus = "DAMAGED"
)

// InventoryStatuses lists every status in display order. Count
// summaries report a zero for each one even when no rows match.
var InventoryStatuses = []InventoryStatus{
	StatusAvailable,
	StatusReserved,
	StatusSold,
	StatusRMA,
	StatusDamaged,
}

// InventoryItem is one physical unit of a variant. Serial numbers,
// when present, are unique across the whole inventory.
type InventoryItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	VariantID    uint            `gorm:"not null;index" json:"variant_id"`
	SerialNumber *string         `gorm:"size:100;uniqueIndex" json:"serial_number,omitempty"`
	Status       InventoryStatus `gorm:"size:15;not null;default:AVAILABLE;index" json:"status"`
	LocationCode *string         `gorm:"size:100;index" json:"location_code,omitempty"`
	CostBasis    *float64        `gorm:"check:ck_inventory_positive_cost,cost_basis IS NULL OR cost_basis >= 0" json:"cost_basis,omitempty"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
	SoldAt       *time.Time      `json:"sold_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory_item"
}
