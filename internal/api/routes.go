package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/config"
	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/middleware"
	"solarify-backend-go/internal/pvwatts"
	"solarify-backend-go/internal/weather"
)

// SetupRoutes configures all application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is applied to the
// router before this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	dashboardService core.DashboardService,
	rfqService core.RFQService,
	quoteService core.QuoteService,
	productService core.ProductService,
	orderService core.OrderService,
	reviewService core.ReviewService,
	promotionService core.PromotionService,
	contactService core.ContactService,
	billingService core.BillingService,
	pvwattsClient *pvwatts.Client,
	weatherClient *weather.Client,
) {
	// The auth client must be available after db.InitFirebase. Starting
	// without it would leave every protected route open.
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	userHandler := NewUserHandler(userService, dashboardService, logger)
	rfqHandler := NewRFQHandler(rfqService, logger)
	quoteHandler := NewQuoteHandler(quoteService, logger)
	productHandler := NewProductHandler(productService, logger)
	orderHandler := NewOrderHandler(orderService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	promotionHandler := NewPromotionHandler(promotionService, logger)
	contactHandler := NewContactHandler(contactService, logger)
	solarHandler := NewSolarHandler(pvwattsClient, weatherClient, logger)
	billingHandler := NewBillingHandler(billingService, logger)

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users")
		{
			// Called after client-side Firebase login to ensure a backend
			// profile exists.
			usersGroup.POST("/session", authMW.VerifyToken(), userHandler.EnsureSession)
			usersGroup.POST("/initialize", authMW.VerifyToken(), userHandler.InitializeProfile)

			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentProfile)
			usersGroup.PUT("/me", authMW.VerifyToken(), userHandler.UpdateCurrentProfile)

			// Marketplace profiles are public so homeowners can browse
			// installers and suppliers before signing in.
			usersGroup.GET("/:userId", userHandler.GetPublicProfile)
		}

		rfqsGroup := apiV1.Group("/rfqs", authMW.VerifyToken())
		{
			rfqsGroup.POST("", rfqHandler.Create)
			rfqsGroup.GET("", rfqHandler.ListMine)
			rfqsGroup.GET("/inbox", rfqHandler.Inbox)
			rfqsGroup.GET("/:rfqId", rfqHandler.Get)
			rfqsGroup.PUT("/:rfqId", rfqHandler.Update)
			rfqsGroup.DELETE("/:rfqId", rfqHandler.Delete)
			rfqsGroup.POST("/:rfqId/submit", rfqHandler.Submit)
			rfqsGroup.POST("/:rfqId/decline", rfqHandler.Decline)

			rfqsGroup.POST("/:rfqId/quotes", quoteHandler.Submit)
			rfqsGroup.GET("/:rfqId/quotes", quoteHandler.ListForRFQ)
		}

		quotesGroup := apiV1.Group("/quotes", authMW.VerifyToken())
		{
			quotesGroup.GET("", quoteHandler.ListMine)
			quotesGroup.GET("/:quoteId", quoteHandler.Get)
			quotesGroup.POST("/:quoteId/accept", quoteHandler.Accept)
			quotesGroup.POST("/:quoteId/reject", quoteHandler.Reject)
			quotesGroup.POST("/:quoteId/withdraw", quoteHandler.Withdraw)
		}

		productsGroup := apiV1.Group("/products")
		{
			// Browsing the catalog is public.
			productsGroup.GET("", productHandler.List)
			productsGroup.GET("/:productId", productHandler.Get)

			productsGroup.POST("", authMW.VerifyToken(), productHandler.Create)
			productsGroup.PUT("/:productId", authMW.VerifyToken(), productHandler.Update)
			productsGroup.DELETE("/:productId", authMW.VerifyToken(), productHandler.Delete)
		}

		ordersGroup := apiV1.Group("/orders", authMW.VerifyToken())
		{
			ordersGroup.POST("", orderHandler.Create)
			ordersGroup.GET("", orderHandler.ListMine)
			ordersGroup.GET("/received", orderHandler.ListReceived)
			ordersGroup.GET("/:orderId", orderHandler.Get)
			ordersGroup.PATCH("/:orderId/status", orderHandler.UpdateStatus)
		}

		reviewsGroup := apiV1.Group("/reviews")
		{
			reviewsGroup.POST("", authMW.VerifyToken(), reviewHandler.Create)
			reviewsGroup.GET("/:targetType/:targetId", reviewHandler.ListForTarget)
		}

		promotionsGroup := apiV1.Group("/promotions")
		{
			promotionsGroup.GET("/active", promotionHandler.ListActive)

			promotionsGroup.POST("", authMW.VerifyToken(), promotionHandler.Create)
			promotionsGroup.GET("", authMW.VerifyToken(), promotionHandler.ListMine)
			promotionsGroup.PUT("/:promotionId", authMW.VerifyToken(), promotionHandler.Update)
			promotionsGroup.DELETE("/:promotionId", authMW.VerifyToken(), promotionHandler.Delete)
		}

		apiV1.GET("/dashboard", authMW.VerifyToken(), userHandler.GetDashboard)

		// Public utility endpoints. The calculators are stateless and the
		// contact form is rate limited by client IP.
		apiV1.POST("/contact", contactHandler.Submit)
		apiV1.GET("/solar/estimate", solarHandler.EstimateProduction)
		apiV1.GET("/weather/forecast", solarHandler.GetForecast)
		apiV1.POST("/solar-billing", billingHandler.SolarBilling)
		apiV1.POST("/net-metering", billingHandler.NetMetering)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Solarify backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
