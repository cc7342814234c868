package router

import (
	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/config"
	"github.com/usav/inventory-backend/internal/app/controller"
	"github.com/usav/inventory-backend/internal/middleware"
)

type Router struct {
	familyController    *controller.FamilyController
	identityController  *controller.IdentityController
	variantController   *controller.VariantController
	bundleController    *controller.BundleController
	listingController   *controller.ListingController
	inventoryController *controller.InventoryController
	lookupController    *controller.LookupController
	reportController    *controller.ReportController
	eventController     *controller.EventController
	config              *config.Config
}

func NewRouter(
	familyController *controller.FamilyController,
	identityController *controller.IdentityController,
	variantController *controller.VariantController,
	bundleController *controller.BundleController,
	listingController *controller.ListingController,
	inventoryController *controller.InventoryController,
	lookupController *controller.LookupController,
	reportController *controller.ReportController,
	eventController *controller.EventController,
	cfg *config.Config,
) *Router {
	return &Router{
		familyController:    familyController,
		identityController:  identityController,
		variantController:   variantController,
		bundleController:    bundleController,
		listingController:   listingController,
		inventoryController: inventoryController,
		lookupController:    lookupController,
		reportController:    reportController,
		eventController:     eventController,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Inventory API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		families := v1.Group("/families")
		{
			families.POST("", r.familyController.CreateFamily)
			families.GET("", r.familyController.ListFamilies)
			families.GET("/:product_id", r.familyController.GetFamily)
			families.PATCH("/:product_id", r.familyController.UpdateFamily)
			families.DELETE("/:product_id", r.familyController.DeleteFamily)
		}

		identities := v1.Group("/identities")
		{
			identities.POST("", r.identityController.CreateIdentity)
			identities.GET("", r.identityController.ListIdentities)
			identities.GET("/upis/:upis_h", r.identityController.GetIdentityByUPISH)
			identities.GET("/:id", r.identityController.GetIdentity)
			identities.PATCH("/:id", r.identityController.UpdateIdentity)
			identities.DELETE("/:id", r.identityController.DeleteIdentity)
			identities.GET("/:id/bundles", r.bundleController.ListParents)
		}

		variants := v1.Group("/variants")
		{
			variants.POST("", r.variantController.CreateVariant)
			variants.GET("", r.variantController.ListVariants)
			variants.GET("/sku/:full_sku", r.variantController.GetVariantBySKU)
			variants.GET("/external/:external_item_id", r.variantController.GetVariantByExternalItemID)
			variants.GET("/pending-sync", r.variantController.PendingSync)
			variants.GET("/:id", r.variantController.GetVariant)
			variants.PATCH("/:id", r.variantController.UpdateVariant)
			variants.POST("/:id/sync-status", r.variantController.SetSyncStatus)
			variants.DELETE("/:id", r.variantController.DeactivateVariant)
		}

		bundles := v1.Group("/bundles")
		{
			bundles.POST("/:id/components", r.bundleController.AddComponent)
			bundles.GET("/:id/components", r.bundleController.ListComponents)
			bundles.GET("/components/:component_id", r.bundleController.GetComponent)
			bundles.PATCH("/components/:component_id", r.bundleController.UpdateComponent)
			bundles.DELETE("/components/:component_id", r.bundleController.RemoveComponent)
		}

		listings := v1.Group("/listings")
		{
			listings.POST("", r.listingController.CreateListing)
			listings.GET("", r.listingController.ListListings)
			listings.GET("/pending/:platform", r.listingController.PendingSync)
			listings.GET("/failed/:platform", r.listingController.FailedSync)
			listings.GET("/external/:platform/:external_ref_id", r.listingController.GetListingByExternalRef)
			listings.GET("/:id", r.listingController.GetListing)
			listings.PATCH("/:id", r.listingController.UpdateListing)
			listings.POST("/:id/mark-synced", r.listingController.MarkSynced)
			listings.POST("/:id/mark-error", r.listingController.MarkError)
			listings.DELETE("/:id", r.listingController.DeleteListing)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("", r.inventoryController.AddItem)
			inventory.POST("/batch", r.inventoryController.AddBatch)
			inventory.POST("/receive", r.inventoryController.ReceiveItem)
			inventory.POST("/move", r.inventoryController.MoveItem)
			inventory.GET("", r.inventoryController.ListItems)
			inventory.GET("/summary", r.inventoryController.Summary)
			inventory.GET("/value/total", r.inventoryController.TotalValue)
			inventory.GET("/audit/:sku_or_serial", r.inventoryController.Audit)
			inventory.GET("/serial/:serial_number", r.inventoryController.GetItemBySerial)
			inventory.GET("/:id", r.inventoryController.GetItem)
			inventory.PATCH("/:id", r.inventoryController.UpdateItem)
			inventory.POST("/:id/reserve", r.inventoryController.Reserve)
			inventory.POST("/:id/sell", r.inventoryController.Sell)
			inventory.POST("/:id/rma", r.inventoryController.MarkRMA)
			inventory.POST("/:id/damage", r.inventoryController.MarkDamaged)
			inventory.POST("/:id/restock", r.inventoryController.Restock)
			inventory.DELETE("/:id", r.inventoryController.DeleteItem)
		}

		lookups := v1.Group("/lookups")
		{
			lookups.GET("/brands", r.lookupController.ListBrands)
			lookups.POST("/brands", r.lookupController.CreateBrand)
			lookups.DELETE("/brands/:id", r.lookupController.DeleteBrand)
			lookups.GET("/colors", r.lookupController.ListColors)
			lookups.POST("/colors", r.lookupController.CreateColor)
			lookups.DELETE("/colors/:id", r.lookupController.DeleteColor)
			lookups.GET("/conditions", r.lookupController.ListConditions)
			lookups.POST("/conditions", r.lookupController.CreateCondition)
			lookups.DELETE("/conditions/:id", r.lookupController.DeleteCondition)
			lookups.GET("/lci-definitions", r.lookupController.ListLCIDefinitions)
			lookups.POST("/lci-definitions", r.lookupController.CreateLCIDefinition)
			lookups.DELETE("/lci-definitions/:id", r.lookupController.DeleteLCIDefinition)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("/inventory", r.reportController.GenerateInventoryReport)
		}

		events := v1.Group("/events")
		{
			events.GET("/ws", r.eventController.Subscribe)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
