// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/cart"
	"github.com/lootportal/lootportal-api/internal/domain/catalog"
	"github.com/lootportal/lootportal-api/internal/domain/checkout"
	"github.com/lootportal/lootportal-api/internal/domain/order"
	"github.com/lootportal/lootportal-api/internal/domain/proof"
	"github.com/lootportal/lootportal-api/internal/domain/user"
	"github.com/lootportal/lootportal-api/internal/interfaces/http/handlers"
	"github.com/lootportal/lootportal-api/internal/interfaces/http/middleware"
	"github.com/lootportal/lootportal-api/internal/pkg/email"
	"github.com/lootportal/lootportal-api/internal/pkg/pdf"
)

// SetupRoutes wires the services and mounts every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) error {
	emailService, err := email.NewService(cfg)
	if err != nil {
		return err
	}

	catalogService := catalog.NewService(db)
	cartService := cart.NewService(cart.NewRedisStore(redisClient, cfg.Cart.TTL), logger)
	orderService := order.NewService(db, emailService, logger)
	proofService := proof.NewService(cfg)
	userService := user.NewService(db, cfg)
	pdfService := pdf.NewService(cfg)
	checkoutService := checkout.NewService(
		checkout.NewRedisDraftStore(redisClient, cfg.Checkout.DraftTTL),
		cartService,
		orderService,
		proofService,
		cfg.Checkout.SubmitTimeout,
		logger,
	)

	setupAuthRoutes(rg, userService, cfg)
	setupCatalogRoutes(rg, catalogService, cfg)
	setupCartRoutes(rg, cartService, catalogService, cfg)
	setupCheckoutRoutes(rg, checkoutService, catalogService, proofService, cfg)
	setupOrderRoutes(rg, orderService, pdfService, cfg)
	setupAdminRoutes(rg, orderService, cfg)
	return nil
}

func setupAuthRoutes(rg *gin.RouterGroup, userService *user.Service, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(userService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.Profile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, catalogService *catalog.Service, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(catalogService, cfg)

	games := rg.Group("/games")
	{
		games.GET("", catalogHandler.ListGames)
		games.GET("/categories", catalogHandler.Categories)
		games.GET("/:slug", catalogHandler.GetGame)
	}

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.GET("", catalogHandler.ListSubscriptions)
		subscriptions.GET("/:slug", catalogHandler.GetSubscription)
	}

	rg.GET("/payment-channels", catalogHandler.PaymentChannels)
}

func setupCartRoutes(rg *gin.RouterGroup, cartService *cart.Service, catalogService *catalog.Service, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(cartService, catalogService, cfg)

	carts := rg.Group("/cart")
	carts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.GET("/count", cartHandler.Count)
		carts.PUT("/panel", cartHandler.SetPanel)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:id", cartHandler.UpdateItem)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, checkoutService *checkout.Service, catalogService *catalog.Service, proofService *proof.Service, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, catalogService, proofService, cfg)

	checkouts := rg.Group("/checkout")
	checkouts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkouts.POST("", checkoutHandler.Start)
		checkouts.GET("/:id", checkoutHandler.Get)
		checkouts.DELETE("/:id", checkoutHandler.Abandon)
		checkouts.PUT("/:id/contact", checkoutHandler.SetContact)
		checkouts.PUT("/:id/payment", checkoutHandler.SetPayment)
		checkouts.POST("/:id/proof", checkoutHandler.UploadProof)
		checkouts.POST("/:id/next", checkoutHandler.Next)
		checkouts.POST("/:id/back", checkoutHandler.Back)

		// Submission is guest-capable unless deployment opts into a login
		// gate; the rest of the flow never requires auth
		submit := []gin.HandlerFunc{checkoutHandler.Submit}
		if cfg.Checkout.RequireAuth {
			submit = append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg)}, submit...)
		}
		checkouts.POST("/:id/submit", submit...)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, orderService *order.Service, pdfService *pdf.Service, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(orderService, pdfService)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:number", orderHandler.GetOrder)
		orders.GET("/:number/receipt", orderHandler.Receipt)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, orderService *order.Service, cfg *config.Config) {
	adminHandler := handlers.NewAdminHandler(orderService)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/orders", adminHandler.ListOrders)
		admin.GET("/orders/:number", adminHandler.GetOrder)
		admin.PUT("/orders/:number/status", adminHandler.UpdateOrderStatus)
	}
}
