package model

import (
	"time"
)

// Lookup tables backing the catalog UI. Codes are short stable keys,
// display names are free to change.

type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "brand"
}

type Color struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:10;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Color) TableName() string {
	return "color"
}

type Condition struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:2;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Condition) TableName() string {
	return "condition"
}

// LCIDefinition documents what a local component index means within
// one family, e.g. "1 = left speaker".
type LCIDefinition struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   int       `gorm:"not null;index;uniqueIndex:uq_lci_definition_product_lci" json:"product_id"`
	LCI         int       `gorm:"column:lci;not null;uniqueIndex:uq_lci_definition_product_lci;check:ck_lci_definition_range,lci >= 1 AND lci <= 99" json:"lci"`
	Description string    `gorm:"size:255;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Family *ProductFamily `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LCIDefinition) TableName() string {
	return "lci_definition"
}
