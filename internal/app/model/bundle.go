package model

import (
	"time"
)

// BundleRole marks how a component participates in its parent bundle.
type BundleRole string

const (
	RolePrimary   BundleRole = "Primary"
	RoleAccessory BundleRole = "Accessory"
	RoleSatellite BundleRole = "Satellite"
)

// BundleComponent is an edge of the bill-of-materials graph. The
// parent must be a composite identity (type B or K); a child may be
// any identity, including another bundle.
type BundleComponent struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ParentIdentityID uint       `gorm:"not null;index;uniqueIndex:uq_bundle_parent_child;check:ck_bundle_no_self_reference,parent_identity_id <> child_identity_id" json:"parent_identity_id"`
	ChildIdentityID  uint       `gorm:"not null;index;uniqueIndex:uq_bundle_parent_child" json:"child_identity_id"`
	Quantity         int        `gorm:"not null;default:1;check:ck_bundle_positive_quantity,quantity >= 1" json:"quantity"`
	Role             BundleRole `gorm:"size:20;not null;default:Accessory" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Parent *ProductIdentity `gorm:"foreignKey:ParentIdentityID;constraint:OnDelete:CASCADE" json:"parent,omitempty"`
	Child  *ProductIdentity `gorm:"foreignKey:ChildIdentityID;constraint:OnDelete:CASCADE" json:"child,omitempty"`
}

func (BundleComponent) TableName() string {
	return "bundle_component"
}
