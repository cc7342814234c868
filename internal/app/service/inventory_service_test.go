package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/redis"
	"github.com/usav/inventory-backend/pkg/sku"
	"gorm.io/gorm"
)

func setupInventoryServiceTest(t *testing.T) (InventoryService, *model.ProductVariant, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	inventoryRepo := repository.NewInventoryRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	inventoryService := NewInventoryService(inventoryRepo, variantRepo, time.Minute)

	family := &model.ProductFamily{
		ProductID: 845,
		BaseName:  "Bose Acoustimass 10",
	}
	testDB.Create(family)

	identity := &model.ProductIdentity{
		ProductID:    845,
		IdentityType: sku.TypeBase,
		UPISH:        "00845",
		HexSignature: "BBF802E7",
		Name:         "Bose Acoustimass 10",
	}
	testDB.Create(identity)

	color := "WY"
	condition := sku.ConditionNew
	variant := &model.ProductVariant{
		IdentityID:    identity.ID,
		ColorCode:     &color,
		ConditionCode: &condition,
		FullSKU:       "00845-WY-N",
		IsActive:      true,
		SyncStatus:    model.ZohoSyncPending,
	}
	testDB.Create(variant)

	return inventoryService, variant, testDB
}

func TestInventoryService_ReceiveItem(t *testing.T) {
	inventoryService, _, _ := setupInventoryServiceTest(t)

	location := "A-12"
	cost := 120.50
	item, err := inventoryService.ReceiveItem(ReceiveItemInput{
		SerialNumber: "SN-0001",
		VariantSKU:   "00845-WY-N",
		LocationCode: &location,
		CostBasis:    &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, item.Status)
	require.NotNil(t, item.ReceivedAt)
	require.NotNil(t, item.SerialNumber)
	assert.Equal(t, "SN-0001", *item.SerialNumber)
}

func TestInventoryService_ReceiveItem_DuplicateSerial(t *testing.T) {
	inventoryService, _, _ := setupInventoryServiceTest(t)

	_, err := inventoryService.ReceiveItem(ReceiveItemInput{
		SerialNumber: "SN-0001",
		VariantSKU:   "00845-WY-N",
	})
	require.NoError(t, err)

	_, err = inventoryService.ReceiveItem(ReceiveItemInput{
		SerialNumber: "SN-0001",
		VariantSKU:   "00845-WY-N",
	})
	assert.ErrorIs(t, err, ErrSerialExists)
}

func TestInventoryService_ReceiveItem_UnknownSKU(t *testing.T) {
	inventoryService, _, _ := setupInventoryServiceTest(t)

	_, err := inventoryService.ReceiveItem(ReceiveItemInput{
		SerialNumber: "SN-0001",
		VariantSKU:   "00999-ZZ-N",
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestInventoryService_ReserveThenSell(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	reserved, err := inventoryService.Reserve(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReserved, reserved.Status)

	// A second reserve on the same unit must fail the guard.
	_, err = inventoryService.Reserve(item.ID)
	assert.ErrorIs(t, err, ErrTransitionNotValid)

	sold, err := inventoryService.Sell(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, sold.Status)
	require.NotNil(t, sold.SoldAt)

	_, err = inventoryService.Sell(item.ID)
	assert.ErrorIs(t, err, ErrTransitionNotValid)
}

func TestInventoryService_SellDirectFromAvailable(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	sold, err := inventoryService.Sell(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, sold.Status)
}

func TestInventoryService_RMAAndRestock(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	// RMA from AVAILABLE is not a valid move.
	_, err = inventoryService.MarkRMA(item.ID)
	assert.ErrorIs(t, err, ErrTransitionNotValid)

	_, err = inventoryService.Sell(item.ID)
	require.NoError(t, err)

	returned, err := inventoryService.MarkRMA(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRMA, returned.Status)

	restocked, err := inventoryService.Restock(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, restocked.Status)
}

func TestInventoryService_MarkDamaged(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	damaged, err := inventoryService.MarkDamaged(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDamaged, damaged.Status)

	// A damaged unit cannot be sold.
	_, err = inventoryService.Sell(item.ID)
	assert.ErrorIs(t, err, ErrTransitionNotValid)

	restocked, err := inventoryService.Restock(item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, restocked.Status)
}

func TestInventoryService_MoveItem(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	location := "A-01"
	serial := "SN-MOVE"
	_, err := inventoryService.AddItem(AddItemInput{
		VariantID:    variant.ID,
		SerialNumber: &serial,
		LocationCode: &location,
	})
	require.NoError(t, err)

	result, err := inventoryService.MoveItem("SN-MOVE", "B-07")
	require.NoError(t, err)
	assert.Equal(t, "SN-MOVE", result.SerialNumber)
	require.NotNil(t, result.PreviousLocation)
	assert.Equal(t, "A-01", *result.PreviousLocation)
	assert.Equal(t, "B-07", result.NewLocation)

	moved, err := inventoryService.GetItemBySerial("SN-MOVE")
	require.NoError(t, err)
	require.NotNil(t, moved.LocationCode)
	assert.Equal(t, "B-07", *moved.LocationCode)

	_, err = inventoryService.MoveItem("SN-MISSING", "C-01")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestInventoryService_Audit(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	serial := "SN-AUDIT"
	_, err := inventoryService.AddItem(AddItemInput{
		VariantID:    variant.ID,
		SerialNumber: &serial,
	})
	require.NoError(t, err)
	_, err = inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	// Serial lookup returns exactly that unit.
	bySerial, err := inventoryService.Audit("SN-AUDIT")
	require.NoError(t, err)
	require.Len(t, bySerial, 1)

	// SKU lookup returns every unit of the variant.
	bySKU, err := inventoryService.Audit("00845-WY-N")
	require.NoError(t, err)
	assert.Len(t, bySKU, 2)

	_, err = inventoryService.Audit("nothing-matches")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestInventoryService_Summary_CachesInRedis(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		redis.SetClient(nil)
	})

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)
	_, err = inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	ctx := context.Background()
	summary, err := inventoryService.Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Available)
	assert.Equal(t, int64(2), summary.Total)
	assert.True(t, mr.Exists("inventory:summary:all"))

	// Status changes invalidate the cache.
	_, err = inventoryService.Reserve(item.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists("inventory:summary:all"))

	summary, err = inventoryService.Summary(ctx, &variant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Available)
	assert.Equal(t, int64(1), summary.Reserved)
	assert.True(t, mr.Exists(fmt.Sprintf("inventory:summary:variant:%d", variant.ID)))
}

func TestInventoryService_TotalValue(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	costA, costB := 100.0, 50.0
	itemA, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID, CostBasis: &costA})
	require.NoError(t, err)
	_, err = inventoryService.AddItem(AddItemInput{VariantID: variant.ID, CostBasis: &costB})
	require.NoError(t, err)

	total, err := inventoryService.TotalValue(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)

	_, err = inventoryService.Sell(itemA.ID)
	require.NoError(t, err)

	sold := model.StatusSold
	soldValue, err := inventoryService.TotalValue(nil, &sold)
	require.NoError(t, err)
	assert.Equal(t, 100.0, soldValue)

	available := model.StatusAvailable
	availableValue, err := inventoryService.TotalValue(&variant.ID, &available)
	require.NoError(t, err)
	assert.Equal(t, 50.0, availableValue)
}

func TestInventoryService_UpdateItem_RejectsNegativeCost(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	badCost := -1.0
	_, err = inventoryService.UpdateItem(item.ID, repository.InventoryItemUpdate{
		CostBasis: &badCost,
	})
	assert.ErrorIs(t, err, ErrInvalidCostBasis)
}

func TestInventoryService_DeleteItem(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	item, err := inventoryService.AddItem(AddItemInput{VariantID: variant.ID})
	require.NoError(t, err)

	require.NoError(t, inventoryService.DeleteItem(item.ID))
	assert.ErrorIs(t, inventoryService.DeleteItem(item.ID), ErrItemNotFound)
}

func TestInventoryService_AddBatch(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	location := "C-03"
	cost := 42.0
	items, err := inventoryService.AddBatch(AddBatchInput{
		VariantID:    variant.ID,
		Quantity:     3,
		LocationCode: &location,
		CostBasis:    &cost,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, model.StatusAvailable, item.Status)
		assert.Nil(t, item.SerialNumber)
		require.NotNil(t, item.LocationCode)
		assert.Equal(t, "C-03", *item.LocationCode)
		require.NotNil(t, item.ReceivedAt)
	}

	listed, total, err := inventoryService.ListItems(repository.InventoryFilter{
		VariantID: &variant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, listed, 3)
}

func TestInventoryService_AddBatch_Validation(t *testing.T) {
	inventoryService, variant, _ := setupInventoryServiceTest(t)

	_, err := inventoryService.AddBatch(AddBatchInput{
		VariantID: variant.ID,
		Quantity:  0,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = inventoryService.AddBatch(AddBatchInput{
		VariantID: variant.ID,
		Quantity:  maxBatchQuantity + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = inventoryService.AddBatch(AddBatchInput{
		VariantID: 9999,
		Quantity:  2,
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)

	badCost := -0.5
	_, err = inventoryService.AddBatch(AddBatchInput{
		VariantID: variant.ID,
		Quantity:  2,
		CostBasis: &badCost,
	})
	assert.ErrorIs(t, err, ErrInvalidCostBasis)
}
