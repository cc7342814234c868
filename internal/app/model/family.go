package model

import (
	"time"
)

// ProductFamily is the root namespace for all identities sharing a
// 5-digit product id. Deleting a family cascades through identities,
// variants, bundle edges, listings and inventory.
type ProductFamily struct {
	ProductID           int      `gorm:"primaryKey;autoIncrement:false;check:ck_product_family_id_range,product_id >= 0 AND product_id <= 99999" json:"product_id"`
	BaseName            string   `gorm:"size:255;not null" json:"base_name"`
	Description         *string  `gorm:"type:text" json:"description,omitempty"`
	BrandID             *uint    `gorm:"index" json:"brand_id,omitempty"`
	DimensionLength     *float64 `json:"dimension_length,omitempty"` // inches
	DimensionWidth      *float64 `json:"dimension_width,omitempty"`
	DimensionHeight     *float64 `json:"dimension_height,omitempty"`
	Weight              *float64 `json:"weight,omitempty"` // pounds
	KitIncludedProducts *string  `gorm:"size:2000" json:"kit_included_products,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brand      *Brand            `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL" json:"brand,omitempty"`
	Identities []ProductIdentity `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProductFamily) TableName() string {
	return "product_family"
}
