package model

import (
	"time"

	"github.com/usav/inventory-backend/pkg/sku"
)

// PhysicalClass describes the physical category of an identity.
// Stored as a single-letter code.
type PhysicalClass string

const (
	PhysicalElectronics PhysicalClass = "E"
	PhysicalCable       PhysicalClass = "C"
	PhysicalPaper       PhysicalClass = "P"
	PhysicalSpeaker     PhysicalClass = "S"
	PhysicalWireless    PhysicalClass = "W"
	PhysicalAccessory   PhysicalClass = "A"
)

// ProductIdentity is a concrete product within a family, keyed by
// identity type. LCI is populated only for Part identities and is
// unique within the family.
type ProductIdentity struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ProductID     int              `gorm:"not null;index;uniqueIndex:uq_identity_product_type_lci" json:"product_id"`
	IdentityType  sku.IdentityType `gorm:"size:10;not null;uniqueIndex:uq_identity_product_type_lci;check:ck_identity_lci_type,(identity_type = 'P' AND lci IS NOT NULL) OR (identity_type <> 'P' AND lci IS NULL)" json:"identity_type"`
	LCI           *int             `gorm:"column:lci;uniqueIndex:uq_identity_product_type_lci;check:ck_identity_lci_range,lci IS NULL OR (lci >= 1 AND lci <= 99)" json:"lci,omitempty"`
	UPISH         string           `gorm:"column:upis_h;size:32;not null;uniqueIndex" json:"upis_h"`
	HexSignature  string           `gorm:"size:8;not null;index" json:"hex_signature"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Description   *string          `gorm:"type:text" json:"description,omitempty"`
	PhysicalClass *PhysicalClass   `gorm:"size:2" json:"physical_class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Family   *ProductFamily   `gorm:"foreignKey:ProductID;references:ProductID" json:"family,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProductIdentity) TableName() string {
	return "product_identity"
}
