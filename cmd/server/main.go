package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/smarthomes/backend/internal/application/cart"
	catalogapp "github.com/smarthomes/backend/internal/application/catalog"
	customerapp "github.com/smarthomes/backend/internal/application/customer"
	eventapp "github.com/smarthomes/backend/internal/application/event"
	identityapp "github.com/smarthomes/backend/internal/application/identity"
	orderapp "github.com/smarthomes/backend/internal/application/order"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/infrastructure/cache"
	"github.com/smarthomes/backend/internal/infrastructure/config"
	"github.com/smarthomes/backend/internal/infrastructure/event"
	"github.com/smarthomes/backend/internal/infrastructure/idgen"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/metrics"
	"github.com/smarthomes/backend/internal/infrastructure/persistence"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
	"github.com/smarthomes/backend/internal/infrastructure/worker"
	"github.com/smarthomes/backend/internal/interfaces/http/handler"
	"github.com/smarthomes/backend/internal/interfaces/http/middleware"
	"github.com/smarthomes/backend/internal/interfaces/http/router"
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
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SmartHomes backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Tracing
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Document store; the gorm options only apply to sqlite and postgres
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if cfg.Storage.Driver == config.StoragePostgres {
		dbTracing.DBSystem = "postgresql"
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), dbTracing.SlowQueryThresh)
	store, err := persistence.OpenStore(cfg, log,
		persistence.WithGormLogger(gormLog),
		persistence.WithDBHook(telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm),
	)
	if err != nil {
		log.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing document store", zap.Error(err))
		}
	}()

	m := metrics.New(cfg.Metrics.Namespace)

	// Event bus: collections publish after commit
	bus := event.NewInMemoryEventBus(log)
	collectionOpts := []persistence.CollectionOption{
		persistence.WithPublisher(bus),
		persistence.WithObserver(m),
		persistence.WithLogger(log),
	}

	// Repositories
	catalogRepo, err := persistence.NewCatalogRepository(store, cfg.Storage.SeedDefaults, collectionOpts...)
	if err != nil {
		log.Fatal("Failed to prepare catalog", zap.Error(err))
	}
	orderRepo := persistence.NewOrderRepository(store, collectionOpts...)
	customerRepo := persistence.NewCustomerRepository(store, collectionOpts...)
	userRepo := persistence.NewUserRepository(store, collectionOpts...)
	cartRepo := persistence.NewCartRepository(store, m)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	err = persistence.LoadAll(loadCtx, log,
		catalogRepo.Collection, orderRepo.Collection, customerRepo.Collection, userRepo.Collection)
	cancelLoad()
	if err != nil {
		log.Fatal("Failed to load documents", zap.Error(err))
	}

	// Background cart saves
	cartPool, err := worker.NewPool("cart-persist", worker.Config{
		Size:        cfg.Cart.PersistWorkers,
		TaskTimeout: cfg.Cart.PersistTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to start cart worker pool", zap.Error(err))
	}
	m.RegisterPool("cart-persist", cartPool.Running, cartPool.Waiting)

	// Checkout idempotency
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	confirmations, err := idgen.NewConfirmationGenerator(cfg.Order)
	if err != nil {
		log.Fatal("Failed to create confirmation generator", zap.Error(err))
	}

	// Application services
	productService := catalogapp.NewProductService(catalogRepo)
	cartService := cartapp.NewService(cartRepo, productService, cartPool, log)
	cartService.SetSessionLimits(cfg.Cart.MaxSessions, cfg.Cart.SessionIdleTTL)
	cartService.SetMetrics(m)
	orderService := orderapp.NewService(orderRepo, cartService, confirmations, log, orderapp.Options{
		PickupLeadDays: cfg.Order.PickupLeadDays,
		MintAttempts:   cfg.Order.MintAttempts,
		Idempotency: shared.IdempotencyConfig{
			Enabled: cfg.Order.IdempotencyEnabled,
			TTL:     cfg.Order.IdempotencyTTL,
		},
	})
	orderService.SetIdempotencyStore(idempotencyStore)
	orderService.SetMetrics(m)
	customerService := customerapp.NewCustomerService(customerRepo, log)
	userService := identityapp.NewUserService(userRepo, log)

	// Event handlers
	bus.Subscribe(orderapp.NewCustomerDeletedHandler(orderService, log))
	bus.Subscribe(eventapp.NewOrderMetricsHandler(m))
	bus.Subscribe(eventapp.NewAuditLogHandler(log))
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engineCfg := router.EngineConfig{
		Logger: log,
		CORS: middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDKey, middleware.CartSessionHeader, handler.ReplayedHeader},
			MaxAge:        12 * time.Hour,
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Health: handler.NewSystemHandler(store).Health,
	}
	if cfg.Metrics.Enabled {
		engineCfg.Recorder = m
		engineCfg.MetricsPath = cfg.Metrics.Path
		engineCfg.MetricsHandler = m.Handler()
	}
	engine, err := router.NewEngine(engineCfg)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	router.NewRouter(engine, router.WithGroupMiddleware(middleware.CartSession())).
		Register(
			handler.NewProductHandler(productService),
			handler.NewCartHandler(cartService),
			handler.NewOrderHandler(orderService),
			handler.NewCustomerHandler(customerService),
			handler.NewUserHandler(userService),
		).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// Drain pending cart saves before the store closes
	if err := cartPool.Stop(ctx); err != nil {
		log.Error("Cart saves did not finish", zap.Error(err))
	}
	_ = bus.Stop(ctx)

	log.Info("Server exited gracefully")
}
