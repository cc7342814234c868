package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/db"
)

func setupLookupServiceTest(t *testing.T) LookupService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	lookupRepo := repository.NewLookupRepository(testDB)
	familyRepo := repository.NewFamilyRepository(testDB)
	return NewLookupService(lookupRepo, familyRepo)
}

func TestLookupService_ColorLifecycle(t *testing.T) {
	lookupService := setupLookupServiceTest(t)

	color, err := lookupService.CreateColor("wy", "White")
	require.NoError(t, err)
	assert.Equal(t, "WY", color.Code)

	_, err = lookupService.CreateColor("WY", "White Again")
	assert.ErrorIs(t, err, ErrLookupExists)

	require.NoError(t, lookupService.DeleteColor(color.ID))

	colors, err := lookupService.ListColors()
	require.NoError(t, err)
	assert.Empty(t, colors)

	assert.ErrorIs(t, lookupService.DeleteColor(color.ID), ErrColorNotFound)
}

func TestLookupService_ConditionLifecycle(t *testing.T) {
	lookupService := setupLookupServiceTest(t)

	desc := "Open box, tested working"
	condition, err := lookupService.CreateCondition("r", "Refurbished", &desc)
	require.NoError(t, err)
	assert.Equal(t, "R", condition.Code)
	require.NotNil(t, condition.Description)

	_, err = lookupService.CreateCondition("R", "Refurbished Again", nil)
	assert.ErrorIs(t, err, ErrLookupExists)

	conditions, err := lookupService.ListConditions()
	require.NoError(t, err)
	require.Len(t, conditions, 1)

	require.NoError(t, lookupService.DeleteCondition(condition.ID))
	assert.ErrorIs(t, lookupService.DeleteCondition(condition.ID), ErrConditionNotFound)
}
