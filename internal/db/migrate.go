package db

import (
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Brand{},
		&model.Color{},
		&model.Condition{},
		&model.ProductFamily{},
		&model.ProductIdentity{},
		&model.LCIDefinition{},
		&model.ProductVariant{},
		&model.BundleComponent{},
		&model.PlatformListing{},
		&model.InventoryItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedColors(); err != nil {
		logger.Error("Failed to seed colors", err)
		return err
	}

	if err := seedConditions(); err != nil {
		logger.Error("Failed to seed conditions", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedColors inserts the standard color codes used in SKU suffixes.
func seedColors() error {
	var count int64
	if err := DB.Model(&model.Color{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Colors already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	colors := []model.Color{
		{Code: "BK", Name: "Black"},
		{Code: "WH", Name: "White"},
		{Code: "WY", Name: "Walnut Yellow"},
		{Code: "SV", Name: "Silver"},
		{Code: "GR", Name: "Gray"},
		{Code: "BL", Name: "Blue"},
		{Code: "RD", Name: "Red"},
		{Code: "CH", Name: "Cherry"},
	}

	for _, color := range colors {
		if err := DB.Create(&color).Error; err != nil {
			logger.Error("Failed to create color", err, map[string]interface{}{
				"code": color.Code,
			})
			return err
		}
	}

	logger.Info("Colors seeded successfully", map[string]interface{}{
		"total_colors": len(colors),
	})
	return nil
}

// seedConditions inserts the condition codes appended to full SKUs.
// Absence of a code on a variant means Used.
func seedConditions() error {
	var count int64
	if err := DB.Model(&model.Condition{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Conditions already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	refurbished := "Factory or in-house refurbished unit"
	brandNew := "Sealed or open-box new unit"

	conditions := []model.Condition{
		{Code: "N", Name: "New", Description: &brandNew},
		{Code: "R", Name: "Refurbished", Description: &refurbished},
	}

	for _, condition := range conditions {
		if err := DB.Create(&condition).Error; err != nil {
			logger.Error("Failed to create condition", err, map[string]interface{}{
				"code": condition.Code,
			})
			return err
		}
	}

	logger.Info("Conditions seeded successfully", map[string]interface{}{
		"total_conditions": len(conditions),
	})
	return nil
}
