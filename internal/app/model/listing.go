package model

import (
	"time"

	"github.com/lib/pq"
)

// Platform is an external sales channel.
type Platform string

const (
	PlatformZoho     Platform = "ZOHO"
	PlatformAmazonUS Platform = "AMAZON_US"
	PlatformAmazonCA Platform = "AMAZON_CA"
	PlatformEbay     Platform = "EBAY"
	PlatformEcwid    Platform = "ECWID"
)

// Platforms lists every sales channel in a stable order.
var Platforms = []Platform{
	PlatformZoho,
	PlatformAmazonUS,
	PlatformAmazonCA,
	PlatformEbay,
	PlatformEcwid,
}

// PlatformSyncStatus is the per-listing sync state.
type PlatformSyncStatus string

const (
	PlatformSyncPending PlatformSyncStatus = "PENDING"
	PlatformSyncSynced  PlatformSyncStatus = "SYNCED"
	PlatformSyncError   PlatformSyncStatus = "ERROR"
)

// PlatformListing projects a variant onto one sales channel. A
// variant carries at most one listing per platform.
type PlatformListing struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	VariantID        uint               `gorm:"not null;index;uniqueIndex:uq_listing_variant_platform" json:"variant_id"`
	Platform         Platform           `gorm:"size:20;not null;uniqueIndex:uq_listing_variant_platform" json:"platform"`
	Title            *string            `gorm:"size:500" json:"title,omitempty"`
	Description      *string            `gorm:"type:text" json:"description,omitempty"`
	Price            *float64           `gorm:"check:ck_listing_positive_price,price IS NULL OR price >= 0" json:"price,omitempty"`
	ImageURLs        pq.StringArray     `gorm:"type:text[]" json:"image_urls,omitempty"`
	PlatformMetadata *string            `gorm:"type:jsonb" json:"platform_metadata,omitempty"`
	ExternalRefID    *string            `gorm:"size:100;index" json:"external_ref_id,omitempty"`
	SyncStatus       PlatformSyncStatus `gorm:"size:10;not null;default:PENDING;index" json:"sync_status"`
	SyncError        *string            `gorm:"type:text" json:"sync_error,omitempty"`
	LastSyncedAt     *time.Time         `json:"last_synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (PlatformListing) TableName() string {
	return "platform_listing"
}
