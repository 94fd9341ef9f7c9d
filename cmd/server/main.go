package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/retribusi/backend/internal/application/billing"
	"github.com/retribusi/backend/internal/domain/shared"
	"github.com/retribusi/backend/internal/infrastructure/config"
	"github.com/retribusi/backend/internal/infrastructure/logger"
	"github.com/retribusi/backend/internal/infrastructure/persistence"
	"github.com/retribusi/backend/internal/interfaces/http/handler"
	"github.com/retribusi/backend/internal/interfaces/http/middleware"
	"github.com/retribusi/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Retribusi Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	categoryRepo := persistence.NewGormTariffCategoryRepository(db.DB)
	overrideRepo := persistence.NewGormTariffOverrideRepository(db.DB)
	historyRepo := persistence.NewGormTariffHistoryRepository(db.DB)
	statusPeriodRepo := persistence.NewGormStatusPeriodRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)

	// Initialize application services
	clock := shared.SystemClock{}
	resolver := billingapp.NewTariffResolver(customerRepo, categoryRepo, overrideRepo, historyRepo)
	customerService := billingapp.NewCustomerService(customerRepo, categoryRepo, overrideRepo, statusPeriodRepo, clock, log)
	statusService := billingapp.NewStatusService(customerRepo, statusPeriodRepo, clock, log)
	historyService := billingapp.NewTariffHistoryService(customerRepo, categoryRepo, historyRepo, paymentRepo, log)
	arrearsService := billingapp.NewArrearsService(customerRepo, categoryRepo, overrideRepo, historyRepo, statusPeriodRepo, paymentRepo, clock, log)
	paymentService := billingapp.NewPaymentService(customerRepo, paymentRepo, installmentRepo, resolver, clock, log)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService, statusService)
	tariffHandler := handler.NewTariffHandler(customerService, historyService, resolver)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	arrearsHandler := handler.NewArrearsHandler(arrearsService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report json field names in binding validation errors
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Billing domain (customers, tariffs, payments, arrears)
	billingRoutes := router.NewDomainGroup("billing", "/billing")

	// Customer routes
	billingRoutes.POST("/customers", customerHandler.Create)
	billingRoutes.GET("/customers", customerHandler.List)
	billingRoutes.GET("/customers/:id", customerHandler.GetByID)
	billingRoutes.PUT("/customers/:id", customerHandler.Update)
	billingRoutes.POST("/customers/:id/toggle-status", customerHandler.ToggleStatus)
	billingRoutes.GET("/customers/:id/timeline", customerHandler.Timeline)

	// Tariff category routes
	billingRoutes.POST("/tariff-categories", tariffHandler.CreateCategory)
	billingRoutes.GET("/tariff-categories", tariffHandler.ListCategories)
	billingRoutes.GET("/tariff-categories/:id", tariffHandler.GetCategory)
	billingRoutes.PUT("/tariff-categories/:id/price", tariffHandler.UpdateCategoryPrice)

	// Per-customer tariff routes
	billingRoutes.POST("/customers/:id/tariff-overrides", tariffHandler.SetOverride)
	billingRoutes.GET("/customers/:id/tariff-overrides", tariffHandler.ListOverrides)
	billingRoutes.DELETE("/customers/:id/tariff-overrides/:month", tariffHandler.RemoveOverride)
	billingRoutes.GET("/customers/:id/tariff-history", tariffHandler.ListHistory)
	billingRoutes.POST("/customers/:id/change-tariff", tariffHandler.ChangeTariff)
	billingRoutes.POST("/tariff/preserve/bulk", tariffHandler.PreserveBulk)
	billingRoutes.GET("/customers/:id/tariff/:month", tariffHandler.Resolve)

	// Payment routes
	billingRoutes.POST("/payments", paymentHandler.Record)
	billingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	billingRoutes.DELETE("/payments/:id", paymentHandler.Cancel)
	billingRoutes.POST("/payments/:id/deposit", paymentHandler.MarkDeposited)
	billingRoutes.GET("/customers/:id/payments", paymentHandler.ListByCustomer)
	billingRoutes.GET("/customers/:id/installments", paymentHandler.ListInstallments)

	// Arrears routes
	billingRoutes.GET("/customers/:id/arrears", arrearsHandler.GetByCustomer)
	billingRoutes.POST("/arrears/batch", arrearsHandler.Batch)
	billingRoutes.GET("/arrears/total", arrearsHandler.Total)

	r.Register(billingRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
