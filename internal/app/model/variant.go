package model

import (
	"time"

	"github.com/usav/inventory-backend/pkg/sku"
)

// ZohoSyncStatus tracks the variant-level sync state against the
// master catalog. DIRTY marks a previously synced variant whose
// attributes changed locally.
type ZohoSyncStatus string

const (
	ZohoSyncPending ZohoSyncStatus = "PENDING"
	ZohoSyncSynced  ZohoSyncStatus = "SYNCED"
	ZohoSyncError   ZohoSyncStatus = "ERROR"
	ZohoSyncDirty   ZohoSyncStatus = "DIRTY"
)

// ProductVariant is a sellable SKU: an identity narrowed by optional
// color and condition. FullSKU is derived once at creation and never
// recomputed afterwards.
type ProductVariant struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	IdentityID     uint               `gorm:"not null;index;uniqueIndex:uq_variant_identity_color_condition" json:"identity_id"`
	ColorCode      *string            `gorm:"size:10;uniqueIndex:uq_variant_identity_color_condition" json:"color_code,omitempty"`
	ConditionCode  *sku.ConditionCode `gorm:"size:2;uniqueIndex:uq_variant_identity_color_condition" json:"condition_code,omitempty"`
	FullSKU        string             `gorm:"column:full_sku;size:64;not null;uniqueIndex" json:"full_sku"`
	ExternalItemID *string            `gorm:"size:64;index" json:"external_item_id,omitempty"`
	Price          *float64           `gorm:"check:ck_variant_positive_price,price IS NULL OR price >= 0" json:"price,omitempty"`
	IsActive       bool               `gorm:"not null;default:true;index" json:"is_active"`
	SyncStatus     ZohoSyncStatus     `gorm:"size:10;not null;default:PENDING" json:"sync_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Identity *ProductIdentity  `gorm:"foreignKey:IdentityID" json:"identity,omitempty"`
	Listings []PlatformListing `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"-"`
	Items    []InventoryItem   `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variant"
}
