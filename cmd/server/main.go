package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	appidentity "github.com/factura/backend/internal/application/identity"
	importapp "github.com/factura/backend/internal/application/import"
	appinvoicing "github.com/factura/backend/internal/application/invoicing"
	apppartner "github.com/factura/backend/internal/application/partner"
	"github.com/factura/backend/internal/domain/shared"
	"github.com/factura/backend/internal/infrastructure/auth"
	"github.com/factura/backend/internal/infrastructure/cache"
	"github.com/factura/backend/internal/infrastructure/config"
	"github.com/factura/backend/internal/infrastructure/email"
	"github.com/factura/backend/internal/infrastructure/logger"
	"github.com/factura/backend/internal/infrastructure/persistence"
	"github.com/factura/backend/internal/infrastructure/scheduler"
	"github.com/factura/backend/internal/infrastructure/storage"
	"github.com/factura/backend/internal/interfaces/http/handler"
	"github.com/factura/backend/internal/interfaces/http/middleware"
	"github.com/factura/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting factura backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	// Token revocation backed by Redis when reachable, in-memory otherwise
	jwtService := auth.NewJWTService(cfg.JWT)
	revocationList := newRevocationList(cfg.Redis, log)

	// Idempotency store for upload deduplication
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithStoreLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Object storage for tenant logos
	objectStorage, localFilesPath, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Reminder email delivery
	emailSender, err := email.NewSender(&cfg.Email, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender", zap.Error(err))
	}

	// Application services
	quotaService := appbilling.NewQuotaService(clientRepo, log)
	clientService := apppartner.NewClientService(clientRepo)
	importService := importapp.NewClientImportService(clientRepo, quotaService, log)
	invoiceService := appinvoicing.NewInvoiceService(invoiceRepo, clientRepo)
	tenantService := appidentity.NewTenantService(tenantRepo, clientRepo, log)
	logoService := appidentity.NewLogoService(tenantRepo, quotaService, objectStorage, log)
	reminderService := appinvoicing.NewReminderService(tenantRepo, invoiceRepo, clientRepo, emailSender, log)

	// Daily reminder run
	reminderScheduler := scheduler.NewReminderScheduler(cfg.Scheduler, reminderService, log)
	if cfg.Scheduler.Enabled {
		reminderScheduler.Start(context.Background())
		defer reminderScheduler.Stop(context.Background())
		log.Info("Reminder scheduler started",
			zap.Int("run_hour_utc", cfg.Scheduler.RunHourUTC),
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval),
		)
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(db, version)
	authHandler := handler.NewAuthHandler(revocationList, log)
	tenantHandler := handler.NewTenantHandler(tenantService, logoService, jwtService)
	clientHandler := handler.NewClientHandler(clientService)
	importHandler := handler.NewClientImportHandler(importService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		RevocationList: revocationList,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/health",
			"/api/v1/ready",
			"/api/v1/tenants/register",
		},
		SkipPathPrefixes: []string{"/files/"},
		Logger:           log,
	}))
	engine.Use(middleware.Idempotency(idempotencyStore, shared.IdempotencyConfig{
		Enabled: true,
		TTL:     24 * time.Hour,
	}, log))

	// Root-level liveness aliases for load balancers
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Logos stored on disk are served directly in local mode
	if localFilesPath != "" {
		engine.Static("/files", localFilesPath)
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(systemHandler).
		Register(authHandler).
		Register(tenantHandler).
		Register(clientHandler).
		Register(importHandler).
		Register(invoiceHandler).
		Setup()

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

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newRevocationList connects to Redis for a shared revocation list. When
// Redis is unreachable the process keeps a local list so logout still works
// on a single instance.
func newRevocationList(cfg config.RedisConfig, log *zap.Logger) auth.TokenRevocationList {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, falling back to in-memory token revocation",
			zap.String("addr", cfg.Addr()), zap.Error(err))
		_ = client.Close()
		return auth.NewInMemoryTokenRevocationList()
	}

	log.Info("Token revocation list backed by Redis", zap.String("addr", cfg.Addr()))
	return auth.NewRedisTokenRevocationList(client)
}

// newObjectStorage builds the logo store for the configured provider. The
// second return value is the on-disk path to expose over HTTP in local mode.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (appidentity.ObjectStorage, string, error) {
	switch cfg.Storage.Provider {
	case "s3":
		s3Store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, "", err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure storage bucket exists", zap.Error(err))
		}
		return s3Store, "", nil
	default:
		localStore, err := storage.NewLocalObjectStorage(cfg.Storage.LocalPath, "/files", log)
		if err != nil {
			return nil, "", err
		}
		return localStore, cfg.Storage.LocalPath, nil
	}
}
