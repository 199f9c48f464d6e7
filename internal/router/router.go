// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/config"
	"github.com/idreamhq/idream-backend/internal/handlers"
	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	subscriptionService := services.NewSubscriptionService(db, cfg)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	categoryService := services.NewCategoryService(db)
	shopService := services.NewShopService(db)
	productService := services.NewProductService(db, subscriptionService)
	reviewService := services.NewReviewService(db)
	orderService := services.NewOrderService(db)
	reportService := services.NewReportService(db)
	contentService := services.NewContentService(db)
	aiService := services.NewAIService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	shopHandler := handlers.NewShopHandler(shopService, orderService)
	productHandler := handlers.NewProductHandler(productService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)
	contentHandler := handlers.NewContentHandler(contentService)
	aiHandler := handlers.NewAIHandler(aiService)
	uploadHandler := handlers.NewUploadHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Public share link redirect
	r.GET("/s/:id", shopHandler.GetPublicShop)

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.AuthRequired(db), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(db), authHandler.Me)
			auth.PUT("/me", middleware.AuthRequired(db), authHandler.UpdateProfile)
			auth.PUT("/password", middleware.AuthRequired(db), authHandler.ChangePassword)
		}

		// Public storefront
		api.GET("/categories", categoryHandler.ListCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)
		api.GET("/shops", shopHandler.ListPublicShops)
		api.GET("/shops/:id", shopHandler.GetPublicShop)
		api.POST("/shops/:id/share", middleware.OptionalAuth(db), shopHandler.Share)
		api.GET("/products", productHandler.ListPublicProducts)
		api.GET("/products/hot-offers", productHandler.ListHotOffers)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/products/:id/reviews", reviewHandler.ListProductReviews)
		api.GET("/advertisements", contentHandler.ListActiveAdvertisements)
		api.GET("/videos", contentHandler.ListVideos)
		api.GET("/pages/:slug", contentHandler.GetPage)
		api.GET("/subscriptions/plans", subscriptionHandler.ListPlans)
		api.GET("/subscriptions/billing-cycles", subscriptionHandler.ListBillingCycles)
		api.POST("/contact", contentHandler.SubmitContact)
		api.POST("/orders", middleware.OptionalAuth(db), orderHandler.CreateOrder)
		api.POST("/ai/chat", aiHandler.Chat)

		// Authenticated storefront (any signed-in user)
		authed := api.Group("")
		authed.Use(middleware.AuthRequired(db))
		{
			authed.GET("/cart", contentHandler.GetCart)
			authed.POST("/cart", contentHandler.AddToCart)
			authed.DELETE("/cart", contentHandler.ClearCart)
			authed.DELETE("/cart/:productId", contentHandler.RemoveFromCart)
			authed.POST("/reviews", reviewHandler.CreateReview)
			authed.PUT("/reviews/:id", reviewHandler.UpdateReview)
			authed.DELETE("/reviews/:id", reviewHandler.DeleteReview)
		}

		// Admin surface: permission-gated, scope-resolved
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(db), middleware.ResolveScope())
		{
			// Users
			admin.GET("/users", middleware.CheckPermission(models.ResourceUsers, models.ActionRead), userHandler.ListUsers)
			admin.GET("/users/:id", middleware.CheckPermission(models.ResourceUsers, models.ActionRead), userHandler.GetUser)
			admin.POST("/users", middleware.CheckPermission(models.ResourceUsers, models.ActionCreate), userHandler.CreateUser)
			admin.PUT("/users/:id", middleware.CheckPermission(models.ResourceUsers, models.ActionUpdate), userHandler.UpdateUser)
			admin.PATCH("/users/:id/activate", middleware.CheckPermission(models.ResourceUsers, models.ActionActivate), userHandler.SetActive(true))
			admin.PATCH("/users/:id/deactivate", middleware.CheckPermission(models.ResourceUsers, models.ActionActivate), userHandler.SetActive(false))
			admin.DELETE("/users/:id", middleware.CheckPermission(models.ResourceUsers, models.ActionDelete), userHandler.DeleteUser)

			// Roles and permissions
			admin.GET("/roles", middleware.CheckPermission(models.ResourceRoles, models.ActionRead), roleHandler.ListRoles)
			admin.GET("/roles/:id", middleware.CheckPermission(models.ResourceRoles, models.ActionRead), roleHandler.GetRole)
			admin.POST("/roles", middleware.CheckPermission(models.ResourceRoles, models.ActionCreate), roleHandler.CreateRole)
			admin.PUT("/roles/:id", middleware.CheckPermission(models.ResourceRoles, models.ActionUpdate), roleHandler.UpdateRole)
			admin.DELETE("/roles/:id", middleware.CheckPermission(models.ResourceRoles, models.ActionDelete), roleHandler.DeleteRole)
			admin.GET("/permissions", middleware.CheckPermission(models.ResourcePermissions, models.ActionRead), roleHandler.ListPermissions)
			admin.PATCH("/permissions/:id/activate", middleware.CheckPermission(models.ResourcePermissions, models.ActionActivate), roleHandler.SetPermissionActive(true))
			admin.PATCH("/permissions/:id/deactivate", middleware.CheckPermission(models.ResourcePermissions, models.ActionActivate), roleHandler.SetPermissionActive(false))

			// Categories
			admin.POST("/categories", middleware.CheckPermission(models.ResourceCategories, models.ActionCreate), categoryHandler.CreateCategory)
			admin.PUT("/categories/:id", middleware.CheckPermission(models.ResourceCategories, models.ActionUpdate), categoryHandler.UpdateCategory)
			admin.PATCH("/categories/:id/activate", middleware.CheckPermission(models.ResourceCategories, models.ActionActivate), categoryHandler.SetActive(true))
			admin.PATCH("/categories/:id/deactivate", middleware.CheckPermission(models.ResourceCategories, models.ActionActivate), categoryHandler.SetActive(false))
			admin.DELETE("/categories/:id", middleware.CheckPermission(models.ResourceCategories, models.ActionDelete), categoryHandler.DeleteCategory)

			// Shops
			admin.GET("/shops", middleware.CheckPermission(models.ResourceShops, models.ActionRead), shopHandler.ListShops)
			admin.GET("/shops/:id", middleware.CheckPermission(models.ResourceShops, models.ActionRead), shopHandler.GetShop)
			admin.POST("/shops", middleware.CheckPermission(models.ResourceShops, models.ActionCreate), shopHandler.CreateShop)
			admin.PUT("/shops/:id", middleware.CheckPermission(models.ResourceShops, models.ActionUpdate), shopHandler.UpdateShop)
			admin.PATCH("/shops/:id/activate", middleware.CheckPermission(models.ResourceShops, models.ActionActivate), shopHandler.Activate)
			admin.PATCH("/shops/:id/deactivate", middleware.CheckPermission(models.ResourceShops, models.ActionActivate), shopHandler.Deactivate)
			admin.DELETE("/shops/:id", middleware.CheckPermission(models.ResourceShops, models.ActionDelete), shopHandler.DeleteShop)

			// Products
			admin.GET("/products", middleware.CheckPermission(models.ResourceProducts, models.ActionRead), productHandler.ListProducts)
			admin.POST("/products", middleware.CheckPermission(models.ResourceProducts, models.ActionCreate), productHandler.CreateProduct)
			admin.PUT("/products/:id", middleware.CheckPermission(models.ResourceProducts, models.ActionUpdate), productHandler.UpdateProduct)
			admin.PATCH("/products/:id/hot-offer", middleware.CheckPermission(models.ResourceProducts, models.ActionUpdate), productHandler.SetHotOffer)
			admin.PATCH("/products/:id/activate", middleware.CheckPermission(models.ResourceProducts, models.ActionActivate), productHandler.Activate)
			admin.PATCH("/products/:id/deactivate", middleware.CheckPermission(models.ResourceProducts, models.ActionActivate), productHandler.Deactivate)
			admin.DELETE("/products/:id", middleware.CheckPermission(models.ResourceProducts, models.ActionDelete), productHandler.DeleteProduct)
			admin.PUT("/products/:id/rating", middleware.CheckPermission(models.ResourceReviews, models.ActionUpdate), reviewHandler.OverrideRating)

			// Reviews moderation
			admin.PATCH("/reviews/:id/activate", middleware.CheckPermission(models.ResourceReviews, models.ActionActivate), reviewHandler.SetReviewActive(true))
			admin.PATCH("/reviews/:id/deactivate", middleware.CheckPermission(models.ResourceReviews, models.ActionActivate), reviewHandler.SetReviewActive(false))

			// Advertisements, videos, pages, contacts
			admin.GET("/advertisements", middleware.CheckPermission(models.ResourceAds, models.ActionRead), contentHandler.ListAdvertisements)
			admin.POST("/advertisements", middleware.CheckPermission(models.ResourceAds, models.ActionCreate), contentHandler.CreateAdvertisement)
			admin.PUT("/advertisements/:id", middleware.CheckPermission(models.ResourceAds, models.ActionUpdate), contentHandler.UpdateAdvertisement)
			admin.DELETE("/advertisements/:id", middleware.CheckPermission(models.ResourceAds, models.ActionDelete), contentHandler.DeleteAdvertisement)
			admin.POST("/videos", middleware.CheckPermission(models.ResourceVideos, models.ActionCreate), contentHandler.CreateVideo)
			admin.DELETE("/videos/:id", middleware.CheckPermission(models.ResourceVideos, models.ActionDelete), contentHandler.DeleteVideo)
			admin.GET("/pages", middleware.CheckPermission(models.ResourcePages, models.ActionRead), contentHandler.ListPages)
			admin.PUT("/pages", middleware.CheckPermission(models.ResourcePages, models.ActionUpdate), contentHandler.UpsertPage)
			admin.DELETE("/pages/:slug", middleware.CheckPermission(models.ResourcePages, models.ActionDelete), contentHandler.DeletePage)
			admin.GET("/contacts", middleware.CheckPermission(models.ResourceContacts, models.ActionRead), contentHandler.ListContacts)
			admin.PATCH("/contacts/:id/status", middleware.CheckPermission(models.ResourceContacts, models.ActionUpdate), contentHandler.SetContactStatus)

			// Subscriptions
			admin.POST("/subscriptions/plans", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionCreate), subscriptionHandler.CreatePlan)
			admin.PUT("/subscriptions/plans/:id", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionUpdate), subscriptionHandler.UpdatePlan)
			admin.DELETE("/subscriptions/plans/:id", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionDelete), subscriptionHandler.DeletePlan)
			admin.POST("/subscriptions/subscribe", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionCreate), subscriptionHandler.Subscribe)
			admin.POST("/subscriptions/confirm-payment", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionUpdate), subscriptionHandler.ConfirmPayment)
			admin.POST("/subscriptions/expire-overdue", middleware.RoleRequired(models.RoleSuperAdmin), subscriptionHandler.ExpireOverdue)
			admin.GET("/shops/:id/subscription", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionRead), subscriptionHandler.GetShopSubscription)
			admin.GET("/shops/:id/usage", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionRead), subscriptionHandler.GetShopUsage)
			admin.POST("/shops/:id/subscription/cancel", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionUpdate), subscriptionHandler.Cancel)
			admin.POST("/shops/:id/subscription/downgrade", middleware.CheckPermission(models.ResourceSubscriptions, models.ActionUpdate), subscriptionHandler.ScheduleDowngrade)
			admin.GET("/me/shop/subscription", subscriptionHandler.MyShopSubscription)

			// Orders and reports
			admin.GET("/orders", middleware.CheckPermission(models.ResourceOrders, models.ActionRead), orderHandler.ListOrders)
			admin.GET("/reports/shops", middleware.CheckPermission(models.ResourceReports, models.ActionRead), reportHandler.ShopsReport)
			admin.GET("/reports/products", middleware.CheckPermission(models.ResourceReports, models.ActionRead), reportHandler.ProductsReport)
			admin.GET("/reports/orders", middleware.CheckPermission(models.ResourceReports, models.ActionRead), reportHandler.OrdersReport)
			admin.GET("/reports/shares", middleware.CheckPermission(models.ResourceReports, models.ActionRead), reportHandler.SharesReport)
			admin.GET("/reports/subscriptions", middleware.CheckPermission(models.ResourceReports, models.ActionRead), reportHandler.SubscriptionsReport)

			// Uploads
			admin.POST("/uploads/:category", middleware.UploadRateLimit(), uploadHandler.Upload)
		}
	}

	return r
}
