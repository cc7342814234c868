package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

func setupIdentityRepoTest(t *testing.T) (IdentityRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	family := &model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}
	require.NoError(t, testDB.Create(family).Error)

	return NewIdentityRepository(testDB), testDB
}

func seedIdentity(t *testing.T, testDB *gorm.DB, identityType sku.IdentityType, lci *int, name string) *model.ProductIdentity {
	t.Helper()
	upisH := sku.GenerateUPISH(845, identityType, lci)
	identity := &model.ProductIdentity{
		ProductID:    845,
		IdentityType: identityType,
		LCI:          lci,
		UPISH:        upisH,
		HexSignature: sku.GenerateHexSignature(845, identityType, lci),
		Name:         name,
	}
	require.NoError(t, testDB.Create(identity).Error)
	return identity
}

func TestIdentityRepository_NextLCI_CountsPartsOnly(t *testing.T) {
	repo, testDB := setupIdentityRepoTest(t)

	next, err := repo.NextLCI(845)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	one := 1
	seedIdentity(t, testDB, sku.TypePart, &one, "Subwoofer")
	seedIdentity(t, testDB, sku.TypeBase, nil, "Base unit")
	seedIdentity(t, testDB, sku.TypeBundle, nil, "Full bundle")

	next, err = repo.NextLCI(845)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	// Gaps are not reused.
	five := 5
	seedIdentity(t, testDB, sku.TypePart, &five, "Cube speaker")

	next, err = repo.NextLCI(845)
	require.NoError(t, err)
	assert.Equal(t, 6, next)
}

func TestIdentityRepository_ExistsUPISH(t *testing.T) {
	repo, testDB := setupIdentityRepoTest(t)

	seedIdentity(t, testDB, sku.TypeBase, nil, "Base unit")

	exists, err := repo.ExistsUPISH("00845")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsUPISH("00845-B")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIdentityRepository_FindByUPISH_PreloadsFamily(t *testing.T) {
	repo, testDB := setupIdentityRepoTest(t)

	seedIdentity(t, testDB, sku.TypeBase, nil, "Base unit")

	identity, err := repo.FindByUPISH("00845")
	require.NoError(t, err)
	assert.Equal(t, "Base unit", identity.Name)
	require.NotNil(t, identity.Family)
	assert.Equal(t, "Bose Acoustimass 10", identity.Family.BaseName)

	_, err = repo.FindByUPISH("99999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIdentityRepository_FindAll_SearchAndTypeFilter(t *testing.T) {
	repo, testDB := setupIdentityRepoTest(t)

	one, two := 1, 2
	seedIdentity(t, testDB, sku.TypeBase, nil, "Bose Acoustimass 10")
	seedIdentity(t, testDB, sku.TypePart, &one, "Subwoofer module")
	seedIdentity(t, testDB, sku.TypePart, &two, "Cube speaker")

	partType := sku.TypePart
	identities, total, err := repo.FindAll(IdentityFilter{IdentityType: &partType})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, identities, 2)
	assert.Equal(t, "00845-P-1", identities[0].UPISH)
	assert.Equal(t, "00845-P-2", identities[1].UPISH)

	// Search matches name case-insensitively and UPIS-H by substring.
	identities, total, err = repo.FindAll(IdentityFilter{Search: "subwoofer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, identities, 1)
	assert.Equal(t, "Subwoofer module", identities[0].Name)

	_, total, err = repo.FindAll(IdentityFilter{Search: "00845-P"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestIdentityRepository_FindByFamily_Ordering(t *testing.T) {
	repo, testDB := setupIdentityRepoTest(t)

	two, one := 2, 1
	seedIdentity(t, testDB, sku.TypePart, &two, "Cube speaker")
	seedIdentity(t, testDB, sku.TypeBase, nil, "Base unit")
	seedIdentity(t, testDB, sku.TypePart, &one, "Subwoofer")

	identities, err := repo.FindByFamily(845)
	require.NoError(t, err)
	require.Len(t, identities, 3)
	assert.Equal(t, "00845", identities[0].UPISH)
	assert.Equal(t, "00845-P-1", identities[1].UPISH)
	assert.Equal(t, "00845-P-2", identities[2].UPISH)
}
