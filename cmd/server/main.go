package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solarify-backend-go/internal/api"
	"solarify-backend-go/internal/cache"
	"solarify-backend-go/internal/config"
	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/mailer"
	"solarify-backend-go/internal/middleware"
	"solarify-backend-go/internal/pvwatts"
	"solarify-backend-go/internal/weather"
)

func main() {
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth, Realtime Database) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	realtimeDBClient := db.GetRealtimeDBClient()

	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	if realtimeDBClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Realtime Database client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firebase clients retrieved successfully.")

	// Redis backs the response cache and the contact rate limiter. Without
	// REDIS_ADDR a per-process in-memory cache is used instead.
	var appCache cache.Cache
	if appConfig.RedisAddr != "" {
		appCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err), zap.String("addr", appConfig.RedisAddr))
		}
		zapLogger.Info("Redis cache initialized.", zap.String("addr", appConfig.RedisAddr))
	} else {
		appCache = cache.NewMemoryCache()
		zapLogger.Warn("REDIS_ADDR not configured, using in-memory cache. Rate limits will not be shared across instances.")
	}

	var contactMailer *mailer.Mailer
	if appConfig.SMTPHost != "" {
		contactMailer, err = mailer.NewMailer(mailer.NewMailerConfig{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			Username: appConfig.SMTPUser,
			Password: appConfig.SMTPPass,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to configure SMTP mailer", zap.Error(err))
		}
		zapLogger.Info("SMTP mailer configured.", zap.String("host", appConfig.SMTPHost))
	} else {
		zapLogger.Warn("SMTP_HOST not configured, contact form email notifications are disabled.")
	}

	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	rfqRepo := db.NewFirestoreRFQRepository(firestoreClient)
	quoteRepo := db.NewFirestoreQuoteRepository(firestoreClient)
	productRepo := db.NewFirestoreProductRepository(firestoreClient)
	orderRepo := db.NewFirestoreOrderRepository(firestoreClient)
	reviewRepo := db.NewFirestoreReviewRepository(firestoreClient)
	promotionRepo := db.NewFirestorePromotionRepository(firestoreClient)
	contactRepo := db.NewRTDBContactRepository(realtimeDBClient)
	zapLogger.Info("Repositories initialized successfully.")

	taxRate, err := decimal.NewFromString(appConfig.OrderTaxRate)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid ORDER_TAX_RATE", zap.String("value", appConfig.OrderTaxRate), zap.Error(err))
	}
	flatShipping, err := decimal.NewFromString(appConfig.OrderFlatShippingUSD)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid ORDER_FLAT_SHIPPING_USD", zap.String("value", appConfig.OrderFlatShippingUSD), zap.Error(err))
	}

	userService := core.NewUserService(userRepo)
	rfqService := core.NewRFQService(rfqRepo, userRepo)
	quoteService := core.NewQuoteService(quoteRepo, rfqRepo, userRepo)
	productService := core.NewProductService(productRepo, userRepo)
	orderService := core.NewOrderService(orderRepo, productRepo, promotionRepo, userRepo, core.OrderPricing{
		TaxRate:         taxRate,
		FlatShippingUSD: flatShipping,
	})
	reviewService := core.NewReviewService(reviewRepo, userRepo, productRepo)
	promotionService := core.NewPromotionService(promotionRepo, userRepo)
	contactService := core.NewContactService(contactRepo, appCache, contactMailer, core.ContactServiceConfig{
		RateLimit:   appConfig.ContactRateLimit,
		RateWindow:  time.Duration(appConfig.ContactRateWindowMinutes) * time.Minute,
		NotifyEmail: appConfig.ContactNotifyEmail,
		FromEmail:   appConfig.ContactFromEmail,
	})
	dashboardService := core.NewDashboardService(rfqRepo, quoteRepo, productRepo, orderRepo, promotionRepo, reviewRepo)
	billingService := core.NewBillingService()
	zapLogger.Info("Core services initialized successfully.")

	pvwattsClient := pvwatts.NewClient(appConfig.NRELAPIKey, appCache)
	weatherClient := weather.NewClient(appConfig.NOAAUserAgent, appCache)
	if appConfig.NRELAPIKey == "" {
		zapLogger.Warn("NREL_API_KEY not configured, production estimates will be unavailable.")
	}

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()
	zapLogger.Info("Gin engine created.")

	// Middleware order matters: log first, recover from panics next.
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		dashboardService,
		rfqService,
		quoteService,
		productService,
		orderService,
		reviewService,
		promotionService,
		contactService,
		billingService,
		pvwattsClient,
		weatherClient,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
