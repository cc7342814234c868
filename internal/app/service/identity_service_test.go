package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

func setupIdentityServiceTest(t *testing.T) (IdentityService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	identityRepo := repository.NewIdentityRepository(testDB)
	familyRepo := repository.NewFamilyRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	bundleRepo := repository.NewBundleRepository(testDB)
	identityService := NewIdentityService(identityRepo, familyRepo, variantRepo, bundleRepo)

	family := &model.ProductFamily{
		ProductID: 845,
		BaseName:  "Bose Acoustimass 10",
	}
	testDB.Create(family)

	return identityService, testDB
}

func TestIdentityService_CreateBaseIdentity(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	identity, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		Name:         "Bose Acoustimass 10 Home Theater System",
	})
	require.NoError(t, err)
	assert.Equal(t, "00845", identity.UPISH)
	assert.Equal(t, "BBF802E7", identity.HexSignature)
	assert.Nil(t, identity.LCI)
}

func TestIdentityService_CreatePartAutoAssignsLCI(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	first, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		Name:         "Subwoofer Module",
	})
	require.NoError(t, err)
	require.NotNil(t, first.LCI)
	assert.Equal(t, 1, *first.LCI)
	assert.Equal(t, "00845-P-1", first.UPISH)
	assert.Equal(t, "0D9AC325", first.HexSignature)

	second, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		Name:         "Cube Speaker",
	})
	require.NoError(t, err)
	require.NotNil(t, second.LCI)
	assert.Equal(t, 2, *second.LCI)
	assert.Equal(t, "00845-P-2", second.UPISH)
	assert.Equal(t, "237C34AF", second.HexSignature)
}

func TestIdentityService_CreateBundleIdentity(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	bundle, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBundle,
		Name:         "Acoustimass 10 Bundle",
	})
	require.NoError(t, err)
	assert.Equal(t, "00845-B", bundle.UPISH)
	assert.Equal(t, "44613D72", bundle.HexSignature)
}

func TestIdentityService_CreateIdentity_FamilyMissing(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	_, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    900,
		IdentityType: sku.TypeBase,
		Name:         "Unknown",
	})
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestIdentityService_CreateIdentity_InvalidType(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	_, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.IdentityType("X"),
		Name:         "Bad Type",
	})
	assert.ErrorIs(t, err, ErrInvalidIdentityType)
}

func TestIdentityService_CreateIdentity_LCIOnNonPart(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	lci := 1
	_, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		LCI:          &lci,
		Name:         "Base With LCI",
	})
	assert.ErrorIs(t, err, ErrLCINotAllowed)
}

func TestIdentityService_CreateIdentity_ExplicitLCIOutOfRange(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	lci := 100
	_, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		LCI:          &lci,
		Name:         "Overflow Part",
	})
	assert.ErrorIs(t, err, ErrLCIOutOfRange)
}

func TestIdentityService_CreateIdentity_DuplicateSlot(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	lci := 5
	_, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		LCI:          &lci,
		Name:         "Remote",
	})
	require.NoError(t, err)

	_, err = identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		LCI:          &lci,
		Name:         "Remote Again",
	})
	assert.ErrorIs(t, err, ErrIdentityExists)
}

func TestIdentityService_GetIdentityByUPISH(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	created, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		Name:         "Bose Acoustimass 10",
	})
	require.NoError(t, err)

	found, err := identityService.GetIdentityByUPISH("00845")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = identityService.GetIdentityByUPISH("99999")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestIdentityService_UpdateIdentity_DescriptiveOnly(t *testing.T) {
	identityService, _ := setupIdentityServiceTest(t)

	created, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		Name:         "Old Name",
	})
	require.NoError(t, err)

	newName := "New Name"
	updated, err := identityService.UpdateIdentity(created.ID, UpdateIdentityInput{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, created.UPISH, updated.UPISH)
	assert.Equal(t, created.HexSignature, updated.HexSignature)
}

func TestIdentityService_DeleteIdentity_BlockedByVariants(t *testing.T) {
	identityService, testDB := setupIdentityServiceTest(t)

	created, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		Name:         "Bose Acoustimass 10",
	})
	require.NoError(t, err)

	variant := &model.ProductVariant{
		IdentityID: created.ID,
		FullSKU:    "00845",
	}
	testDB.Create(variant)

	err = identityService.DeleteIdentity(created.ID, false)
	assert.ErrorIs(t, err, ErrIdentityHasVariants)

	// Deactivating is not deleting: the variant still blocks an
	// unforced delete.
	require.NoError(t, testDB.Model(variant).Update("is_active", false).Error)
	err = identityService.DeleteIdentity(created.ID, false)
	assert.ErrorIs(t, err, ErrIdentityHasVariants)

	testDB.Delete(variant)
	err = identityService.DeleteIdentity(created.ID, false)
	assert.NoError(t, err)
}

func TestIdentityService_DeleteIdentity_ForceCascades(t *testing.T) {
	identityService, testDB := setupIdentityServiceTest(t)

	bundle, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypeBundle,
		Name:         "Acoustimass 10 Bundle",
	})
	require.NoError(t, err)

	part, err := identityService.CreateIdentity(CreateIdentityInput{
		ProductID:    845,
		IdentityType: sku.TypePart,
		Name:         "Subwoofer Module",
	})
	require.NoError(t, err)

	variant := &model.ProductVariant{
		IdentityID: bundle.ID,
		FullSKU:    "00845-B",
	}
	testDB.Create(variant)
	require.NoError(t, testDB.Model(variant).Update("is_active", false).Error)

	edge := &model.BundleComponent{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         1,
		Role:             model.RolePrimary,
	}
	testDB.Create(edge)

	err = identityService.DeleteIdentity(bundle.ID, true)
	require.NoError(t, err)

	_, err = identityService.GetIdentity(bundle.ID)
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	var variantCount int64
	testDB.Model(&model.ProductVariant{}).Where("identity_id = ?", bundle.ID).Count(&variantCount)
	assert.Equal(t, int64(0), variantCount)

	var edgeCount int64
	testDB.Model(&model.BundleComponent{}).Where("parent_identity_id = ?", bundle.ID).Count(&edgeCount)
	assert.Equal(t, int64(0), edgeCount)

	// The component identity itself survives.
	_, err = identityService.GetIdentity(part.ID)
	assert.NoError(t, err)
}
