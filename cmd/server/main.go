package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/catalogview"
	applisting "github.com/hustle/backend/internal/application/listing"
	"github.com/hustle/backend/internal/application/messaging"
	appseller "github.com/hustle/backend/internal/application/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/hustle/backend/internal/infrastructure/cache"
	"github.com/hustle/backend/internal/infrastructure/config"
	"github.com/hustle/backend/internal/infrastructure/logger"
	"github.com/hustle/backend/internal/infrastructure/persistence"
	"github.com/hustle/backend/internal/infrastructure/storage"
	"github.com/hustle/backend/internal/infrastructure/whatsapp"
	"github.com/hustle/backend/internal/interfaces/http/handler"
	"github.com/hustle/backend/internal/interfaces/http/middleware"
	"github.com/hustle/backend/internal/interfaces/http/router"

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

	log.Info("Starting Hustle Backend",
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
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	interestRepo := persistence.NewGormInterestRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Audit recorder: best-effort append-only trail shared by all services
	recorder := appaudit.NewRecorder(auditRepo, log)

	// Object storage for listing images
	objectStorage := buildObjectStorage(cfg, log)

	// WhatsApp Cloud API client serves as both notifier and media resolver
	waClient, err := whatsapp.NewClient(&cfg.WhatsApp, log)
	if err != nil {
		log.Fatal("Failed to create WhatsApp client", zap.Error(err))
	}

	// Every outbound message also lands in the audit trail
	notifier := messaging.NewAuditingNotifier(waClient, recorder)

	// Webhook deduplication store
	idempotencyStore := buildIdempotencyStore(cfg, log)

	// Initialize application services
	provisioner := appseller.NewProvisionService(sellerRepo, recorder, notifier, log)
	lifecycle := applisting.NewLifecycleService(listingRepo, sellerRepo, recorder, objectStorage, waClient, notifier, log)
	sellerService := appseller.NewService(sellerRepo, listingRepo, interestRepo)
	catalogService := catalogview.NewService(sellerRepo, listingRepo, interestRepo, recorder, objectStorage, notifier, log)
	messageRouter := messaging.NewRouter(provisioner, lifecycle, sellerRepo, recorder, notifier, cfg.Catalog.BaseURL, log)

	// Initialize HTTP handlers
	webhookHandler := handler.NewWebhookHandler(messageRouter, idempotencyStore, cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret, log)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	sellerHandler := handler.NewSellerHandler(sellerService, lifecycle)
	productHandler := handler.NewProductHandler(lifecycle)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, idempotencyStore))

	// Register routes. The webhook and the public catalog keep stable
	// unversioned paths; management endpoints live under the API prefix.
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(sellerHandler).
		Register(productHandler).
		Register(systemHandler)
	r.RegisterPublic(webhookHandler).
		RegisterPublic(catalogHandler)
	r.Setup()

	// Background sweep reclaims image assets of long-removed listings
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Catalog.SweepEnabled {
		go runAssetSweep(sweepCtx, lifecycle, cfg.Catalog, log)
		log.Info("Asset sweep enabled",
			zap.Duration("interval", cfg.Catalog.SweepInterval),
			zap.Duration("retention", cfg.Catalog.SweepRetention),
		)
	}

	// Create HTTP server with config
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

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildObjectStorage selects the S3 backend when credentials are configured,
// falling back to the in-memory stub for local development
func buildObjectStorage(cfg *config.Config, log *zap.Logger) applisting.ObjectStorageService {
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		if cfg.App.Env == "production" {
			log.Fatal("Object storage credentials are required in production")
		}
		log.Warn("Object storage credentials missing, using in-memory stub")
		stub := storage.NewStubObjectStorage()
		if cfg.Storage.PublicBaseURL != "" {
			stub.BaseURL = cfg.Storage.PublicBaseURL
		}
		return stub
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	return s3Storage
}

// buildIdempotencyStore prefers Redis so webhook deduplication survives
// restarts and spans instances
func buildIdempotencyStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	store, err := cache.NewRedisIdempotencyStore(&cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory webhook deduplication", zap.Error(err))
		return cache.NewInMemoryIdempotencyStore()
	}
	log.Info("Redis connected successfully")
	return store
}

// runAssetSweep periodically reclaims image assets of removed listings whose
// undo window lapsed past the retention period
func runAssetSweep(ctx context.Context, lifecycle *applisting.LifecycleService, cfg config.CatalogConfig, log *zap.Logger) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := lifecycle.SweepExpiredAssets(ctx, cfg.SweepRetention, cfg.SweepBatchSize)
			if err != nil {
				log.Error("Asset sweep failed", zap.Error(err))
				continue
			}
			if reclaimed > 0 {
				log.Info("Asset sweep reclaimed images", zap.Int("count", reclaimed))
			}
		}
	}
}

// healthHandler reports liveness of the service and its dependencies
func healthHandler(db *persistence.Database, idempotency shared.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)

		status := http.StatusOK
		dbStatus := "ok"
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			dbStatus = "error"
		}

		dedupStatus := "ok"
		if redisStore, ok := idempotency.(*cache.RedisIdempotencyStore); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			if err := redisStore.GetClient().Ping(ctx).Err(); err != nil {
				dedupStatus = "error"
			}
			cancel()
		}

		healthy := "healthy"
		if status != http.StatusOK {
			healthy = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":   healthy,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"dedup":    dedupStatus,
		})
	}
}
