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

func setupListingServiceTest(t *testing.T) (ListingService, *model.ProductVariant, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	listingRepo := repository.NewListingRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	listingService := NewListingService(listingRepo, variantRepo)

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

	variant := &model.ProductVariant{
		IdentityID: identity.ID,
		FullSKU:    "00845",
		IsActive:   true,
		SyncStatus: model.ZohoSyncPending,
	}
	testDB.Create(variant)

	return listingService, variant, testDB
}

func TestListingService_CreateListing(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	title := "Bose Acoustimass 10 System"
	price := 399.99
	listing, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
		Title:     &title,
		Price:     &price,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSyncPending, listing.SyncStatus)
	assert.Nil(t, listing.LastSyncedAt)
	assert.Nil(t, listing.SyncError)
}

func TestListingService_CreateListing_OnePerPlatform(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	_, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	require.NoError(t, err)

	_, err = listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	assert.ErrorIs(t, err, ErrListingExists)

	// A second platform is fine.
	_, err = listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEcwid,
	})
	assert.NoError(t, err)
}

func TestListingService_CreateListing_InvalidPlatform(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	_, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.Platform("MYSPACE"),
	})
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestListingService_CreateListing_InactiveVariant(t *testing.T) {
	listingService, variant, testDB := setupListingServiceTest(t)

	testDB.Model(variant).Update("is_active", false)

	_, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	assert.ErrorIs(t, err, ErrVariantInactive)
}

func TestListingService_MarkErrorThenSynced(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	listing, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformAmazonUS,
	})
	require.NoError(t, err)

	errored, err := listingService.MarkError(listing.ID, "timeout")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSyncError, errored.SyncStatus)
	require.NotNil(t, errored.SyncError)
	assert.Equal(t, "timeout", *errored.SyncError)
	assert.Nil(t, errored.LastSyncedAt)

	ref := "AMZ-123"
	synced, err := listingService.MarkSynced(listing.ID, &ref)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSyncSynced, synced.SyncStatus)
	assert.Nil(t, synced.SyncError)
	require.NotNil(t, synced.LastSyncedAt)
	require.NotNil(t, synced.ExternalRefID)
	assert.Equal(t, "AMZ-123", *synced.ExternalRefID)
}

func TestListingService_UpdateListing_ResetsSyncedToPending(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	listing, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	require.NoError(t, err)

	_, err = listingService.MarkSynced(listing.ID, nil)
	require.NoError(t, err)

	newTitle := "Updated Title"
	updated, err := listingService.UpdateListing(listing.ID, UpdateListingInput{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSyncPending, updated.SyncStatus)
	// The last successful sync time is history, not state; it stays.
	assert.NotNil(t, updated.LastSyncedAt)
}

func TestListingService_PendingAndFailedQueues(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	ebay, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	require.NoError(t, err)

	ecwid, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEcwid,
	})
	require.NoError(t, err)

	pending, err := listingService.PendingByPlatform(model.PlatformEbay, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ebay.ID, pending[0].ID)

	_, err = listingService.MarkError(ecwid.ID, "listing rejected")
	require.NoError(t, err)

	failed, err := listingService.FailedByPlatform(model.PlatformEcwid, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, ecwid.ID, failed[0].ID)

	_, err = listingService.PendingByPlatform(model.Platform("MYSPACE"), 10)
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestListingService_DeleteListing(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	listing, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformEbay,
	})
	require.NoError(t, err)

	require.NoError(t, listingService.DeleteListing(listing.ID))
	assert.ErrorIs(t, listingService.DeleteListing(listing.ID), ErrListingNotFound)
}

func TestListingService_GetListingByExternalRef(t *testing.T) {
	listingService, variant, _ := setupListingServiceTest(t)

	listing, err := listingService.CreateListing(CreateListingInput{
		VariantID: variant.ID,
		Platform:  model.PlatformAmazonUS,
	})
	require.NoError(t, err)

	ref := "AMZ-B00845"
	_, err = listingService.MarkSynced(listing.ID, &ref)
	require.NoError(t, err)

	found, err := listingService.GetListingByExternalRef(model.PlatformAmazonUS, "AMZ-B00845")
	require.NoError(t, err)
	assert.Equal(t, listing.ID, found.ID)

	// Refs are scoped per platform.
	_, err = listingService.GetListingByExternalRef(model.PlatformEbay, "AMZ-B00845")
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = listingService.GetListingByExternalRef(model.Platform("MYSPACE"), "AMZ-B00845")
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}
