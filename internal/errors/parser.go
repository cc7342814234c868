package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a machine code plus a human-readable message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a database error onto a user-facing code and
// message. Sensitive internals stay hidden, but the message should be
// actionable for the caller.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "an internal server error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	// 3. Network/connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "failed to reach an external service, please retry shortly",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "upis_h") {
		return ErrorInfo{
			Code:    IdentityAlreadyExists,
			Message: "an identity with this UPIS-H already exists",
		}
	}
	if strings.Contains(errLower, "uq_identity_product_type_lci") {
		return ErrorInfo{
			Code:    IdentityAlreadyExists,
			Message: "this product/type/lci combination is already taken",
		}
	}
	if strings.Contains(errLower, "full_sku") || strings.Contains(errLower, "uq_variant_identity_color_condition") {
		return ErrorInfo{
			Code:    VariantAlreadyExists,
			Message: "a variant with this color and condition already exists",
		}
	}
	if strings.Contains(errLower, "uq_bundle_parent_child") {
		return ErrorInfo{
			Code:    BundleComponentExists,
			Message: "this component is already part of the bundle",
		}
	}
	if strings.Contains(errLower, "uq_listing_variant_platform") {
		return ErrorInfo{
			Code:    ListingAlreadyExists,
			Message: "this variant already has a listing on that platform",
		}
	}
	if strings.Contains(errLower, "serial_number") {
		return ErrorInfo{
			Code:    InventorySerialExists,
			Message: "this serial number is already registered",
		}
	}
	if strings.Contains(errLower, "product_family") || strings.Contains(errLower, "pkey") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "a record with this id already exists",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "a duplicate record already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "the record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "product_id") {
		return ErrorInfo{
			Code:    FamilyNotFound,
			Message: "the referenced product family does not exist",
		}
	}
	if strings.Contains(errLower, "identity_id") {
		return ErrorInfo{
			Code:    IdentityNotFound,
			Message: "the referenced identity does not exist",
		}
	}
	if strings.Contains(errLower, "variant_id") {
		return ErrorInfo{
			Code:    VariantNotFound,
			Message: "the referenced variant does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "a referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "base_name") {
		return ErrorInfo{Code: ValidationRequired, Message: "base name is required"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "name is required"}
	}
	if strings.Contains(errLower, "identity_type") {
		return ErrorInfo{Code: ValidationRequired, Message: "identity type is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "a required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "ck_identity_lci_range") || strings.Contains(errLower, "ck_lci_definition_range") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "lci must be between 1 and 99",
		}
	}
	if strings.Contains(errLower, "ck_identity_lci_type") {
		return ErrorInfo{
			Code:    IdentityLCINotAllowed,
			Message: "lci is only valid on Part identities",
		}
	}
	if strings.Contains(errLower, "ck_bundle_no_self_reference") {
		return ErrorInfo{
			Code:    BundleSelfReference,
			Message: "a bundle cannot contain itself",
		}
	}
	if strings.Contains(errLower, "ck_bundle_positive_quantity") {
		return ErrorInfo{
			Code:    BundleInvalidQuantity,
			Message: "component quantity must be at least 1",
		}
	}
	if strings.Contains(errLower, "cost") || strings.Contains(errLower, "price") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "amounts must not be negative",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "the input violates a data constraint",
	}
}

// getNotFoundMessage picks a Not Found message from the call context.
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "family") {
		return "product family not found"
	}
	if strings.Contains(contextLower, "identity") {
		return "product identity not found"
	}
	if strings.Contains(contextLower, "variant") {
		return "product variant not found"
	}
	if strings.Contains(contextLower, "bundle") {
		return "bundle component not found"
	}
	if strings.Contains(contextLower, "listing") {
		return "platform listing not found"
	}
	if strings.Contains(contextLower, "inventory") || strings.Contains(contextLower, "item") {
		return "inventory item not found"
	}

	return "the requested record could not be found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "an error occurred while creating the record, please retry shortly"
	}
	if strings.Contains(contextLower, "update") {
		return "an error occurred while updating the record, please retry shortly"
	}
	if strings.Contains(contextLower, "delete") {
		return "an error occurred while deleting the record, please retry shortly"
	}

	return "an internal server error occurred, please retry shortly"
}
