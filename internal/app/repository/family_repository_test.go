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

func setupFamilyRepoTest(t *testing.T) (FamilyRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewFamilyRepository(testDB), testDB
}

func TestFamilyRepository_NextProductID(t *testing.T) {
	repo, testDB := setupFamilyRepoTest(t)

	next, err := repo.NextProductID()
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, testDB.Create(&model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}).Error)

	next, err = repo.NextProductID()
	require.NoError(t, err)
	assert.Equal(t, 846, next)
}

func TestFamilyRepository_CountIdentities(t *testing.T) {
	repo, testDB := setupFamilyRepoTest(t)

	require.NoError(t, testDB.Create(&model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}).Error)

	count, err := repo.CountIdentities(845)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	one := 1
	require.NoError(t, testDB.Create(&model.ProductIdentity{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		UPISH:        "00845",
		HexSignature: "BBF802E7",
		Name:         "Base unit",
	}).Error)
	require.NoError(t, testDB.Create(&model.ProductIdentity{
		ProductID:    845,
		IdentityType: sku.TypePart,
		LCI:          &one,
		UPISH:        "00845-P-1",
		HexSignature: "0D9AC325",
		Name:         "Subwoofer",
	}).Error)

	count, err = repo.CountIdentities(845)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFamilyRepository_FindAll_SearchAndBrandFilter(t *testing.T) {
	repo, testDB := setupFamilyRepoTest(t)

	brand := &model.Brand{Name: "Bose"}
	require.NoError(t, testDB.Create(brand).Error)

	require.NoError(t, testDB.Create(&model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10", BrandID: &brand.ID}).Error)
	require.NoError(t, testDB.Create(&model.ProductFamily{ProductID: 846, BaseName: "Klipsch ProMedia"}).Error)

	families, total, err := repo.FindAll(FamilyFilter{Search: "acoustimass"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, families, 1)
	assert.Equal(t, 845, families[0].ProductID)
	require.NotNil(t, families[0].Brand)
	assert.Equal(t, "Bose", families[0].Brand.Name)

	_, total, err = repo.FindAll(FamilyFilter{BrandID: &brand.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestFamilyRepository_Exists(t *testing.T) {
	repo, testDB := setupFamilyRepoTest(t)

	require.NoError(t, testDB.Create(&model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}).Error)

	exists, err := repo.Exists(845)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(846)
	require.NoError(t, err)
	assert.False(t, exists)
}
