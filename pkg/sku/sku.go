// Package sku implements the deterministic identifier scheme used across
// the inventory system: the human-readable UPIS-H string, its 32-bit hex
// signature, and the full sellable SKU composed from a variant's color
// and condition codes.
//
// Every function in this package is pure. The string formats are external
// contracts consumed by downstream systems and must stay bit-exact.
package sku

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// IdentityType classifies a product identity.
type IdentityType string

const (
	TypeBase    IdentityType = "Base" // base product
	TypeBundle  IdentityType = "B"
	TypePart    IdentityType = "P"
	TypeKit     IdentityType = "K"
	TypeService IdentityType = "S" // deprecated, kept for legacy rows
)

// ConditionCode refines a variant's condition. Nil/absent means Used.
type ConditionCode string

const (
	ConditionNew         ConditionCode = "N"
	ConditionRefurbished ConditionCode = "R"
)

// ProductIDMax is the upper bound of the 5-digit family namespace.
const ProductIDMax = 99999

// LCIMin and LCIMax bound the Local Component Index for Part identities.
const (
	LCIMin = 1
	LCIMax = 99
)

// ValidType reports whether t is a known identity type.
func ValidType(t IdentityType) bool {
	switch t {
	case TypeBase, TypeBundle, TypePart, TypeKit, TypeService:
		return true
	}
	return false
}

// IsComposite reports whether identities of type t may own bundle components.
func IsComposite(t IdentityType) bool {
	return t == TypeBundle || t == TypeKit
}

// GenerateUPISH derives the human-readable identity string from the
// defining triple. A Base identity is just the zero-padded family id;
// a Part carries its LCI; every other type carries its type code.
//
// The caller is responsible for passing lci iff t == TypePart.
func GenerateUPISH(productID int, t IdentityType, lci *int) string {
	padded := fmt.Sprintf("%05d", productID)

	switch {
	case t == TypeBase:
		return padded
	case t == TypePart && lci != nil:
		return fmt.Sprintf("%s-%s-%d", padded, t, *lci)
	default:
		return fmt.Sprintf("%s-%s", padded, t)
	}
}

// GenerateHexSignature derives the 32-bit signature for an identity:
// SHA-256 over "{5-digit-id}|{type}|{lci-or-empty}", first 4 bytes,
// rendered as 8 uppercase hex characters.
func GenerateHexSignature(productID int, t IdentityType, lci *int) string {
	lciPart := ""
	if lci != nil {
		lciPart = fmt.Sprintf("%d", *lci)
	}

	identity := fmt.Sprintf("%05d|%s|%s", productID, t, lciPart)
	sum := sha256.Sum256([]byte(identity))
	return strings.ToUpper(fmt.Sprintf("%x", sum[:4]))
}

// ComposeFullSKU builds the sellable SKU for a variant: the identity's
// UPIS-H, then the uppercased color code if present, then the condition
// code if present. Condition codes are already canonical single letters
// and are appended as-is.
func ComposeFullSKU(upisH string, colorCode string, condition *ConditionCode) string {
	parts := []string{upisH}

	if colorCode != "" {
		parts = append(parts, strings.ToUpper(colorCode))
	}
	if condition != nil {
		parts = append(parts, string(*condition))
	}

	return strings.Join(parts, "-")
}
