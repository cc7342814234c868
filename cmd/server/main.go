package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/usav/inventory-backend/config"
	"github.com/usav/inventory-backend/internal/app/controller"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/internal/router"
	"github.com/usav/inventory-backend/internal/scheduler"
	"github.com/usav/inventory-backend/internal/storage"
	"github.com/usav/inventory-backend/internal/websocket"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/usav/inventory-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Inventory Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed lookup tables (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the inventory summary cache; the app degrades to
	// direct queries without it.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, summary caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// S3 archive for generated reports, only when a bucket is set.
	var reportStore *storage.S3Storage
	if cfg.S3.Bucket != "" {
		reportStore = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	// Initialize repositories
	familyRepo := repository.NewFamilyRepository(db.GetDB())
	identityRepo := repository.NewIdentityRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	bundleRepo := repository.NewBundleRepository(db.GetDB())
	listingRepo := repository.NewListingRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())
	lookupRepo := repository.NewLookupRepository(db.GetDB())

	// Initialize services
	familyService := service.NewFamilyService(familyRepo)
	identityService := service.NewIdentityService(identityRepo, familyRepo, variantRepo, bundleRepo)
	variantService := service.NewVariantService(variantRepo, identityRepo)
	bundleService := service.NewBundleService(bundleRepo, identityRepo)
	listingService := service.NewListingService(listingRepo, variantRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, variantRepo, cfg.Redis.SummaryTTL)
	lookupService := service.NewLookupService(lookupRepo, familyRepo)
	reportService := service.NewReportService(inventoryRepo, reportStore)

	// Initialize controllers
	familyController := controller.NewFamilyController(familyService)
	identityController := controller.NewIdentityController(identityService)
	variantController := controller.NewVariantController(variantService)
	bundleController := controller.NewBundleController(bundleService)
	listingController := controller.NewListingController(listingService)
	inventoryController := controller.NewInventoryController(inventoryService)
	lookupController := controller.NewLookupController(lookupService)
	reportController := controller.NewReportController(reportService)
	eventController := controller.NewEventController(websocket.DefaultHub())

	// Background listing sync
	syncScheduler := scheduler.NewListingSyncScheduler(listingService, nil, cfg.Sync)
	if err := syncScheduler.Start(); err != nil {
		logger.Fatal("Failed to start listing sync scheduler", err)
	}
	defer syncScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		familyController,
		identityController,
		variantController,
		bundleController,
		listingController,
		inventoryController,
		lookupController,
		reportController,
		eventController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
