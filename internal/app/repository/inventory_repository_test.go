package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

func setupInventoryRepoTest(t *testing.T) (InventoryRepository, *model.ProductVariant, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	family := &model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}
	require.NoError(t, testDB.Create(family).Error)

	identity := &model.ProductIdentity{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		UPISH:        "00845",
		HexSignature: "BBF802E7",
		Name:         "Bose Acoustimass 10",
	}
	require.NoError(t, testDB.Create(identity).Error)

	variant := &model.ProductVariant{
		IdentityID: identity.ID,
		FullSKU:    "00845",
		IsActive:   true,
		SyncStatus: model.ZohoSyncPending,
	}
	require.NoError(t, testDB.Create(variant).Error)

	return NewInventoryRepository(testDB), variant, testDB
}

func createTestItem(t *testing.T, repo InventoryRepository, variantID uint, status model.InventoryStatus, cost *float64) *model.InventoryItem {
	t.Helper()
	item := &model.InventoryItem{
		VariantID: variantID,
		Status:    status,
		CostBasis: cost,
	}
	require.NoError(t, repo.Create(item))
	return item
}

func TestInventoryRepository_Reserve_GuardsStatus(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	item := createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)

	ok, err := repo.Reserve(item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt loses the guard.
	ok, err = repo.Reserve(item.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing items are not an error, just a lost guard.
	ok, err = repo.Reserve(9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInventoryRepository_Sell_FromAvailableOrReserved(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	available := createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)
	reserved := createTestItem(t, repo, variant.ID, model.StatusReserved, nil)
	sold := createTestItem(t, repo, variant.ID, model.StatusSold, nil)

	ok, err := repo.Sell(available.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Sell(reserved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Sell(sold.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(available.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, found.Status)
	assert.NotNil(t, found.SoldAt)
}

func TestInventoryRepository_SetStatus_MissingItem(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	item := createTestItem(t, repo, variant.ID, model.StatusSold, nil)
	require.NoError(t, repo.SetStatus(item.ID, model.StatusRMA))

	err := repo.SetStatus(9999, model.StatusRMA)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInventoryRepository_CountByStatus_IncludesZeroes(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)
	createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)
	createTestItem(t, repo, variant.ID, model.StatusSold, nil)

	counts, err := repo.CountByStatus(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.StatusAvailable])
	assert.Equal(t, int64(1), counts[model.StatusSold])
	assert.Equal(t, int64(0), counts[model.StatusReserved])
	assert.Equal(t, int64(0), counts[model.StatusRMA])
	assert.Equal(t, int64(0), counts[model.StatusDamaged])
}

func TestInventoryRepository_TotalValue(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	// Empty table sums to zero, not NULL.
	total, err := repo.TotalValue(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	costA, costB := 100.0, 25.5
	createTestItem(t, repo, variant.ID, model.StatusAvailable, &costA)
	createTestItem(t, repo, variant.ID, model.StatusSold, &costB)

	total, err = repo.TotalValue(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 125.5, total)

	available := model.StatusAvailable
	total, err = repo.TotalValue(&variant.ID, &available)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
}

func TestInventoryRepository_MoveLocation(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	a := createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)
	b := createTestItem(t, repo, variant.ID, model.StatusAvailable, nil)

	moved, err := repo.MoveLocation([]uint{a.ID, b.ID}, "B-07")
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	found, err := repo.FindByID(a.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LocationCode)
	assert.Equal(t, "B-07", *found.LocationCode)
}

func TestInventoryRepository_FindAll_Filters(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	for i := 0; i < 5; i++ {
		serial := fmt.Sprintf("SN-%04d", i)
		item := &model.InventoryItem{
			VariantID:    variant.ID,
			SerialNumber: &serial,
			Status:       model.StatusAvailable,
		}
		require.NoError(t, repo.Create(item))
	}

	status := model.StatusAvailable
	items, total, err := repo.FindAll(InventoryFilter{
		VariantID: &variant.ID,
		Status:    &status,
		Limit:     2,
		Offset:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	// Preload brings the variant along.
	require.NotNil(t, items[0].Variant)
	assert.Equal(t, "00845", items[0].Variant.FullSKU)
}

func TestInventoryRepository_CreateBatch_Atomic(t *testing.T) {
	repo, variant, _ := setupInventoryRepoTest(t)

	serial := "SN-DUP"
	first := &model.InventoryItem{
		VariantID:    variant.ID,
		SerialNumber: &serial,
		Status:       model.StatusAvailable,
	}
	require.NoError(t, repo.Create(first))

	// The batch fails on the duplicate serial and rolls back entirely.
	other := "SN-OK"
	err := repo.CreateBatch([]model.InventoryItem{
		{VariantID: variant.ID, SerialNumber: &other, Status: model.StatusAvailable},
		{VariantID: variant.ID, SerialNumber: &serial, Status: model.StatusAvailable},
	})
	require.Error(t, err)

	_, err = repo.FindBySerial("SN-OK")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
