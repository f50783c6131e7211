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

	ledgerapp "github.com/fincontrol/backend/internal/application/ledger"
	partnerapp "github.com/fincontrol/backend/internal/application/partner"
	reconapp "github.com/fincontrol/backend/internal/application/reconciliation"
	reportapp "github.com/fincontrol/backend/internal/application/report"
	"github.com/fincontrol/backend/internal/infrastructure/config"
	"github.com/fincontrol/backend/internal/infrastructure/events"
	"github.com/fincontrol/backend/internal/infrastructure/logger"
	"github.com/fincontrol/backend/internal/infrastructure/persistence"
	"github.com/fincontrol/backend/internal/interfaces/http/handler"
	"github.com/fincontrol/backend/internal/interfaces/http/middleware"
	"github.com/fincontrol/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FinControl Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	bankRepo := persistence.NewGormBankItemRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Event publisher (Kafka when brokers are configured, no-op otherwise)
	publisher := events.NewPublisher(&cfg.Events, log)
	defer func() {
		if kafkaPublisher, ok := publisher.(*events.KafkaPublisher); ok {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Error closing event publisher", zap.Error(err))
			}
		}
	}()

	// Application services
	transactionService := ledgerapp.NewTransactionService(txRepo, txManager)
	paymentService := ledgerapp.NewPaymentService(txRepo, publisher, log)
	groupingService := ledgerapp.NewGroupingService(txRepo)
	categoryService := ledgerapp.NewCategoryService(categoryRepo)
	matchService := reconapp.NewMatchService(bankRepo, txRepo, txManager, publisher, log)
	dreService := reportapp.NewDREService(txRepo, categoryRepo, nil)
	partnerService := partnerapp.NewPartnerService(customerRepo, supplierRepo)

	// HTTP handlers
	transactionHandler := handler.NewTransactionHandler(transactionService, paymentService, groupingService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	reconciliationHandler := handler.NewReconciliationHandler(matchService)
	reportHandler := handler.NewReportHandler(dreService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register json/form tag names with the binding validator
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, tenant extraction
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.TenantMiddleware())

	// Health endpoints live outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(transactionHandler).
		Register(categoryHandler).
		Register(reconciliationHandler).
		Register(reportHandler).
		Register(partnerHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
