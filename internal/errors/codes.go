package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to display messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed path or query id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong value format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // value outside allowed range
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Generic resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Product families (FAMILY_) ====================
	FamilyNotFound      = "FAMILY_NOT_FOUND"
	FamilyAlreadyExists = "FAMILY_ALREADY_EXISTS" // product id taken
	FamilyHasIdentities = "FAMILY_HAS_IDENTITIES" // delete blocked without force

	// ==================== Product identities (IDENTITY_) ====================
	IdentityNotFound      = "IDENTITY_NOT_FOUND"
	IdentityAlreadyExists = "IDENTITY_ALREADY_EXISTS"  // UPIS-H collision
	IdentityInvalidType   = "IDENTITY_INVALID_TYPE"    // unknown identity type
	IdentityLCINotAllowed = "IDENTITY_LCI_NOT_ALLOWED" // lci on a non-part identity
	IdentityLCIExhausted  = "IDENTITY_LCI_EXHAUSTED"   // all 99 part slots used

	// ==================== Variants (VARIANT_) ====================
	VariantNotFound      = "VARIANT_NOT_FOUND"
	VariantAlreadyExists = "VARIANT_ALREADY_EXISTS" // same identity/color/condition
	VariantInactive      = "VARIANT_INACTIVE"

	// ==================== Bundles (BUNDLE_) ====================
	BundleNotFound        = "BUNDLE_NOT_FOUND"
	BundleNotComposite    = "BUNDLE_NOT_COMPOSITE"    // parent is not type B or K
	BundleSelfReference   = "BUNDLE_SELF_REFERENCE"   // parent == child
	BundleCycleDetected   = "BUNDLE_CYCLE_DETECTED"   // edge would close a loop
	BundleComponentExists = "BUNDLE_COMPONENT_EXISTS" // duplicate parent/child edge
	BundleInvalidQuantity = "BUNDLE_INVALID_QUANTITY" // quantity below 1

	// ==================== Platform listings (LISTING_) ====================
	ListingNotFound      = "LISTING_NOT_FOUND"
	ListingAlreadyExists = "LISTING_ALREADY_EXISTS" // variant already on platform
	ListingInvalidStatus = "LISTING_INVALID_STATUS"

	// ==================== Inventory (INVENTORY_) ====================
	InventoryNotFound      = "INVENTORY_NOT_FOUND"
	InventorySerialExists  = "INVENTORY_SERIAL_EXISTS"  // duplicate serial number
	InventoryNotApplicable = "INVENTORY_NOT_APPLICABLE" // transition not allowed from current status
	InventoryInvalidStatus = "INVENTORY_INVALID_STATUS" // unknown status value

	// ==================== Lookups (LOOKUP_) ====================
	LookupNotFound      = "LOOKUP_NOT_FOUND"
	LookupAlreadyExists = "LOOKUP_ALREADY_EXISTS"

	// ==================== Reports (REPORT_) ====================
	ReportGenerationFailed = "REPORT_GENERATION_FAILED"
	ReportUploadFailed     = "REPORT_UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
