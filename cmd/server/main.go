package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/invoicehub/backend/internal/application/billing"
	"github.com/invoicehub/backend/internal/infrastructure/cache"
	"github.com/invoicehub/backend/internal/infrastructure/config"
	"github.com/invoicehub/backend/internal/infrastructure/event"
	"github.com/invoicehub/backend/internal/infrastructure/logger"
	"github.com/invoicehub/backend/internal/infrastructure/notification"
	"github.com/invoicehub/backend/internal/infrastructure/persistence"
	"github.com/invoicehub/backend/internal/infrastructure/scheduler"
	"github.com/invoicehub/backend/internal/infrastructure/telemetry"
	"github.com/invoicehub/backend/internal/interfaces/http/handler"
	"github.com/invoicehub/backend/internal/interfaces/http/middleware"
	"github.com/invoicehub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

	log.Info("Starting InvoiceHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel,
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
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
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	proposalRepo := persistence.NewGormProposalRepository(db.DB)

	// Initialize OpenTelemetry metrics. With telemetry disabled the
	// provider hands out no-op meters, so the instrumentation below
	// stays wired either way.
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	billingMetrics, err := telemetry.NewBillingMetrics(telemetry.BillingMetricsConfig{
		Meter:           meterProvider.Meter("billing"),
		Logger:          log,
		CollectInterval: cfg.Telemetry.CollectionInterval,
		OverdueProvider: invoiceRepo,
	})
	if err != nil {
		log.Fatal("Failed to initialize billing metrics", zap.Error(err))
	}
	if cfg.Telemetry.Enabled {
		billingMetrics.StartPeriodicCollection(context.Background(), invoiceRepo, cfg.Telemetry.CollectionInterval)
		defer billingMetrics.Stop()
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(context.Background())
		defer dbMetrics.Stop()
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Distributed idempotency store guards reminder dispatch across
	// instances. Outside production it falls back to an in-process store
	// when Redis is not reachable.
	dispatchGuard, err := cache.SelectIdempotencyStore(cfg.Redis, log, cfg.App.Env != "production")
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Audit every billing event. The idempotency wrapper drops
	// duplicates when the same event is redelivered.
	activityHandler := billingapp.NewActivityHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(activityHandler, dispatchGuard, log))

	// Reminder delivery backend
	notifier := notification.NewLogNotifier(log)

	// Initialize application services
	numberGen := billingapp.NewNumberGenerator(sequenceRepo, log,
		billingapp.WithNumberGeneratorMetrics(billingMetrics),
	)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, numberGen, log,
		billingapp.WithInvoiceEventPublisher(eventBus),
		billingapp.WithInvoiceMetrics(billingMetrics),
	)
	proposalService := billingapp.NewProposalService(proposalRepo, invoiceRepo, numberGen, log,
		billingapp.WithProposalEventPublisher(eventBus),
		billingapp.WithProposalMetrics(billingMetrics),
	)
	reminderService := billingapp.NewReminderService(invoiceRepo, notifier, log,
		billingapp.WithReminderDispatchGuard(dispatchGuard),
		billingapp.WithReminderEventPublisher(eventBus),
		billingapp.WithReminderMetrics(billingMetrics),
	)

	// Initialize the sweep scheduler (if enabled)
	if cfg.Reminder.Enabled {
		sweepExecutor := scheduler.NewBillingSweepExecutor(invoiceService, reminderService, invoiceRepo, log)
		sweepScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Reminder.Enabled,
			MaxConcurrentJobs: cfg.Reminder.DispatchWorkers,
			JobTimeout:        cfg.Reminder.JobTimeout,
			RetryAttempts:     cfg.Reminder.RetryAttempts,
			RetryDelay:        cfg.Reminder.RetryDelay,
		}, sweepExecutor, log)
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep scheduler", zap.Error(err))
			}
		}()

		sweepTrigger := scheduler.NewSweepTrigger(scheduler.SweepTriggerConfig{
			ScanInterval: cfg.Reminder.ScanInterval,
		}, sweepScheduler, log)
		if err := sweepTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
		defer func() {
			if err := sweepTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep trigger", zap.Error(err))
			}
		}()
		log.Info("Sweep scheduler started",
			zap.Duration("scan_interval", cfg.Reminder.ScanInterval),
			zap.Int("dispatch_workers", cfg.Reminder.DispatchWorkers),
			zap.Duration("job_timeout", cfg.Reminder.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	proposalHandler := handler.NewProposalHandler(proposalService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Metrics - Record HTTP request metrics
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// HTTP request metrics
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("http"), cfg.Telemetry.Enabled))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant resolution for API routes. Authentication happens at the
	// gateway; this service trusts the X-Tenant-ID header it forwards.
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Required = false
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Billing domain (invoices, proposals)
	billingRoutes := router.NewDomainGroup("billing", "")
	billingRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "billing service ready"})
	})

	// Invoice routes
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/pay", invoiceHandler.Pay)
	billingRoutes.POST("/invoices/:id/view", invoiceHandler.View)
	billingRoutes.POST("/invoices/:id/download", invoiceHandler.Download)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.POST("/invoices/:id/duplicate", invoiceHandler.Duplicate)
	billingRoutes.PUT("/invoices/:id/reminders", invoiceHandler.SetReminders)
	billingRoutes.DELETE("/invoices/:id/reminders", invoiceHandler.DisableReminders)

	// Proposal routes
	billingRoutes.POST("/proposals", proposalHandler.Create)
	billingRoutes.GET("/proposals", proposalHandler.List)
	billingRoutes.GET("/proposals/:id", proposalHandler.Get)
	billingRoutes.PUT("/proposals/:id", proposalHandler.Update)
	billingRoutes.DELETE("/proposals/:id", proposalHandler.Delete)
	billingRoutes.POST("/proposals/:id/generate", proposalHandler.Generate)
	billingRoutes.POST("/proposals/:id/send", proposalHandler.Send)
	billingRoutes.POST("/proposals/:id/view", proposalHandler.View)
	billingRoutes.POST("/proposals/:id/download", proposalHandler.Download)
	billingRoutes.POST("/proposals/:id/accept", proposalHandler.Accept)
	billingRoutes.POST("/proposals/:id/reject", proposalHandler.Reject)
	billingRoutes.POST("/proposals/:id/duplicate", proposalHandler.Duplicate)
	billingRoutes.POST("/proposals/:id/convert", proposalHandler.ConvertToInvoice)

	r.Register(billingRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		payload := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.Stats(); err == nil {
			payload["db_pool"] = gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			}
		}
		c.JSON(http.StatusOK, payload)
	}
}
