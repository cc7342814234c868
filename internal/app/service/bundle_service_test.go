package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

func setupBundleServiceTest(t *testing.T) (BundleService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	bundleRepo := repository.NewBundleRepository(testDB)
	identityRepo := repository.NewIdentityRepository(testDB)
	bundleService := NewBundleService(bundleRepo, identityRepo)

	family := &model.ProductFamily{
		ProductID: 845,
		BaseName:  "Bose Acoustimass 10",
	}
	testDB.Create(family)

	return bundleService, testDB
}

func createTestIdentity(t *testing.T, testDB *gorm.DB, identityType sku.IdentityType, lci *int) *model.ProductIdentity {
	t.Helper()
	identity := &model.ProductIdentity{
		ProductID:    845,
		IdentityType: identityType,
		LCI:          lci,
		UPISH:        sku.GenerateUPISH(845, identityType, lci),
		HexSignature: sku.GenerateHexSignature(845, identityType, lci),
		Name:         fmt.Sprintf("Identity %s", sku.GenerateUPISH(845, identityType, lci)),
	}
	require.NoError(t, testDB.Create(identity).Error)
	return identity
}

func TestBundleService_AddComponent(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)
	lci := 1
	part := createTestIdentity(t, testDB, sku.TypePart, &lci)

	component, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         5,
		Role:             model.RolePrimary,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, component.Quantity)
	assert.Equal(t, model.RolePrimary, component.Role)
}

func TestBundleService_AddComponent_DefaultRole(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeKit, nil)
	base := createTestIdentity(t, testDB, sku.TypeBase, nil)

	component, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  base.ID,
		Quantity:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAccessory, component.Role)
}

func TestBundleService_AddComponent_ParentNotComposite(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	base := createTestIdentity(t, testDB, sku.TypeBase, nil)
	lci := 1
	part := createTestIdentity(t, testDB, sku.TypePart, &lci)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: base.ID,
		ChildIdentityID:  part.ID,
		Quantity:         1,
	})
	assert.ErrorIs(t, err, ErrBundleNotComposite)
}

func TestBundleService_AddComponent_SelfReference(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  bundle.ID,
		Quantity:         1,
	})
	assert.ErrorIs(t, err, ErrBundleSelfReference)
}

func TestBundleService_AddComponent_InvalidQuantity(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)
	lci := 1
	part := createTestIdentity(t, testDB, sku.TypePart, &lci)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         0,
	})
	assert.ErrorIs(t, err, ErrBundleInvalidQuantity)
}

func TestBundleService_AddComponent_DuplicateEdge(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)
	lci := 1
	part := createTestIdentity(t, testDB, sku.TypePart, &lci)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         1,
	})
	require.NoError(t, err)

	_, err = bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         2,
	})
	assert.ErrorIs(t, err, ErrBundleComponentExists)
}

func TestBundleService_AddComponent_CycleRejected(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	// kit -> bundle, then bundle -> kit would close the loop.
	kit := createTestIdentity(t, testDB, sku.TypeKit, nil)
	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: kit.ID,
		ChildIdentityID:  bundle.ID,
		Quantity:         1,
	})
	require.NoError(t, err)

	_, err = bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  kit.ID,
		Quantity:         1,
	})
	assert.ErrorIs(t, err, ErrBundleCycle)
}

func TestBundleService_AddComponent_TransitiveCycleRejected(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	// a -> b -> c, then c -> a must be refused.
	a := createTestIdentity(t, testDB, sku.TypeKit, nil)
	b := createTestIdentity(t, testDB, sku.TypeBundle, nil)

	// A second composite in another slot of the same family.
	c := &model.ProductIdentity{
		ProductID:    845,
		IdentityType: sku.TypeKit,
		UPISH:        "00845-K2",
		HexSignature: "00000000",
		Name:         "Nested Kit",
	}
	require.NoError(t, testDB.Create(c).Error)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: a.ID,
		ChildIdentityID:  b.ID,
		Quantity:         1,
	})
	require.NoError(t, err)

	_, err = bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: b.ID,
		ChildIdentityID:  c.ID,
		Quantity:         1,
	})
	require.NoError(t, err)

	_, err = bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: c.ID,
		ChildIdentityID:  a.ID,
		Quantity:         1,
	})
	assert.ErrorIs(t, err, ErrBundleCycle)
}

func TestBundleService_ListComponents(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)
	lci1, lci2 := 1, 2
	part1 := createTestIdentity(t, testDB, sku.TypePart, &lci1)
	part2 := createTestIdentity(t, testDB, sku.TypePart, &lci2)

	_, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part1.ID,
		Quantity:         1,
		Role:             model.RolePrimary,
	})
	require.NoError(t, err)
	_, err = bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part2.ID,
		Quantity:         4,
		Role:             model.RoleSatellite,
	})
	require.NoError(t, err)

	components, err := bundleService.ListComponents(bundle.ID)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, part1.ID, components[0].ChildIdentityID)

	parents, err := bundleService.ListParents(part2.ID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, bundle.ID, parents[0].ParentIdentityID)
}

func TestBundleService_UpdateAndRemoveComponent(t *testing.T) {
	bundleService, testDB := setupBundleServiceTest(t)

	bundle := createTestIdentity(t, testDB, sku.TypeBundle, nil)
	lci := 1
	part := createTestIdentity(t, testDB, sku.TypePart, &lci)

	component, err := bundleService.AddComponent(AddComponentInput{
		ParentIdentityID: bundle.ID,
		ChildIdentityID:  part.ID,
		Quantity:         1,
	})
	require.NoError(t, err)

	quantity := 3
	role := model.RoleSatellite
	updated, err := bundleService.UpdateComponent(component.ID, UpdateComponentInput{
		Quantity: &quantity,
		Role:     &role,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, model.RoleSatellite, updated.Role)

	badQuantity := 0
	_, err = bundleService.UpdateComponent(component.ID, UpdateComponentInput{
		Quantity: &badQuantity,
	})
	assert.ErrorIs(t, err, ErrBundleInvalidQuantity)

	require.NoError(t, bundleService.RemoveComponent(component.ID))
	assert.ErrorIs(t, bundleService.RemoveComponent(component.ID), ErrBundleComponentNotFound)
}
