package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/crediario/backend/internal/application/billing"
	partnerapp "github.com/crediario/backend/internal/application/partner"
	"github.com/crediario/backend/internal/infrastructure/config"
	"github.com/crediario/backend/internal/infrastructure/logger"
	"github.com/crediario/backend/internal/infrastructure/notify"
	"github.com/crediario/backend/internal/infrastructure/persistence"
	"github.com/crediario/backend/internal/infrastructure/scheduler"
	"github.com/crediario/backend/internal/infrastructure/storage"
	"github.com/crediario/backend/internal/interfaces/http/handler"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/crediario/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Crediario Backend API
//	@version		1.0
//	@description	Credit account ledger for small retail: customers, invoices, payments and due-date reminders

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Crediario Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)

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

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Object storage for invoice attachments
	var objectStorage billingapp.ObjectStorage
	if cfg.Storage.UseStub {
		log.Info("Using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	} else {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
	}

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo)
	invoiceService := billingapp.NewInvoiceService(txScope, invoiceRepo, paymentRepo)
	paymentService := billingapp.NewPaymentService(txScope, paymentRepo)
	notificationService := billingapp.NewNotificationService(txScope, notificationRepo, notify.NewLogSender(log), log)
	attachmentService := billingapp.NewAttachmentService(attachmentRepo, invoiceRepo, objectStorage)

	// Reminder scheduler
	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.Reminder.Enabled {
		reminderScheduler, err = scheduler.NewReminderScheduler(cfg.Reminder, notificationService, log)
		if err != nil {
			log.Fatal("Failed to create reminder scheduler", zap.Error(err))
		}
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
	} else {
		log.Info("Reminder scheduler disabled")
	}

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, paymentService, notificationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	notificationHandler := handler.NewNotificationHandler(notificationService, cfg.Reminder.DaysAhead, cfg.Reminder.DispatchBatch)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.PUT("/customers/:id/credit-limit", customerHandler.SetCreditLimit)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.GET("/customers/:id/payments", paymentHandler.ListByCustomer)
	r.Register(partnerRoutes)

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.PUT("/invoices/:id/items", invoiceHandler.UpdateItems)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.GET("/invoices/:id/payments", invoiceHandler.ListPayments)
	billingRoutes.GET("/invoices/:id/notifications", invoiceHandler.ListNotifications)
	billingRoutes.POST("/invoices/:id/attachments", attachmentHandler.InitiateUpload)
	billingRoutes.GET("/invoices/:id/attachments", attachmentHandler.ListByInvoice)
	billingRoutes.POST("/payments", paymentHandler.Apply)
	billingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	billingRoutes.PUT("/payments/:id", paymentHandler.Update)
	billingRoutes.DELETE("/payments/:id", paymentHandler.Delete)
	billingRoutes.GET("/attachments/:id/download", attachmentHandler.GetDownloadURL)
	billingRoutes.DELETE("/attachments/:id", attachmentHandler.Delete)
	billingRoutes.POST("/notifications/schedule", notificationHandler.ScheduleReminders)
	billingRoutes.POST("/notifications/dispatch", notificationHandler.DispatchPending)
	r.Register(billingRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/health", systemHandler.Health)
	r.Register(systemRoutes)

	r.Setup()

	// Plain health endpoint outside API versioning, for load balancers
	engine.GET("/health", systemHandler.Health)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reminderScheduler != nil {
		if err := reminderScheduler.Stop(ctx); err != nil {
			log.Error("Error stopping reminder scheduler", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
