package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	sessionapp "github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Shopper session, catalog and order API

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const (
	sessionIdleTimeout   = 30 * time.Minute
	sessionEvictInterval = 5 * time.Minute
	sessionRowRetention  = 30 * 24 * time.Hour
	rateLimitSweep       = 10 * time.Minute
	shutdownTimeout      = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log provider", zap.Error(err))
		}
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := migrateSchema(&cfg.Database, db, log); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.Driver), log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	sessionRows := persistence.NewGormKVStore(db.DB)

	if cfg.Seed.Enabled {
		seedCatalog(ctx, cfg.Seed, productRepo, userRepo, log)
	}

	storage, redisClient, err := cache.NewKVStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
		cache.WithSQLStore(sessionRows),
		cache.WithSessionTTL(sessionRowRetention),
	).CreateStore(cfg.Session.Storage)
	if err != nil {
		log.Fatal("Failed to create session storage", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	var revoker auth.TokenRevoker = auth.NewInMemoryTokenRevoker()
	if redisClient != nil {
		revoker = auth.NewRedisTokenRevoker(redisClient, cfg.Redis.KeyPrefix)
	}

	policy, err := pricing.ParsePolicy(cfg.Pricing.FreeShippingThreshold, cfg.Pricing.FlatShippingRate, cfg.Pricing.TaxRate)
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}
	stockPolicy, err := sessionapp.ParseStockPolicy(cfg.Session.StockPolicy)
	if err != nil {
		log.Fatal("Invalid session configuration", zap.Error(err))
	}
	sessionMetrics, err := telemetry.NewSessionMetrics(meterProvider.Meter("storefront/session"))
	if err != nil {
		log.Fatal("Failed to create session metrics", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revoker, log)
	productService := catalogapp.NewProductService(productRepo)
	orderService := orderapp.NewOrderService(orderRepo, policy, log)
	registry := sessionapp.NewRegistry(storage, sessionMetrics, log)
	cartService := sessionapp.NewCartService(productRepo, stockPolicy, log)
	checkoutService := sessionapp.NewCheckoutService(orderService, policy, sessionMetrics, log)

	go registry.RunEviction(ctx, sessionEvictInterval, sessionIdleTimeout)
	if cfg.Session.Storage == cache.StorageSQL {
		go purgeSessionRows(ctx, sessionRows, log)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go rateLimiter.RunCleanup(ctx, rateLimitSweep)
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	checks := map[string]handler.Pinger{
		"database": handler.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if cfg.Session.HeaderName != middleware.DefaultSessionHeader {
		cors.AllowHeaders = append(cors.AllowHeaders, cfg.Session.HeaderName)
		cors.ExposeHeaders = append(cors.ExposeHeaders, cfg.Session.HeaderName)
	}
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engine := router.NewEngine(router.Options{
		ServiceName:    cfg.Telemetry.ServiceName,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           cors,
		Security:       security,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RateLimiter:    rateLimiter,
		Session: middleware.SessionConfig{
			HeaderName:   cfg.Session.HeaderName,
			CookieName:   cfg.Session.CookieName,
			CookieMaxAge: cfg.Session.CookieMaxAge,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
		Tracing:       tracerProvider.IsEnabled(),
		MeterProvider: meterProvider,
		Profiling:     profiler.IsEnabled(),
		Authenticator: authService,
	}, router.Handlers{
		Health:   handler.NewHealthHandler(cfg.App.Name, "1.0.0", checks),
		Products: handler.NewProductHandler(productService),
		Sessions: handler.NewSessionHandler(registry, cartService, checkoutService, authService),
		Orders:   handler.NewOrderHandler(orderService),
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// migrateSchema runs the embedded SQL migrations on Postgres and AutoMigrate on SQLite
func migrateSchema(cfg *config.DatabaseConfig, db *persistence.Database, log *zap.Logger) error {
	if db.Driver == config.DriverSQLite {
		return db.AutoMigrate()
	}

	// the migrator closes its connection, so it gets its own
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(conn, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}

func seedCatalog(ctx context.Context, cfg config.SeedConfig, products *persistence.GormProductRepository, users *persistence.GormUserRepository, log *zap.Logger) {
	data, err := persistence.LoadSeedFile(cfg.File)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}
	result, err := persistence.NewSeeder(products, users, log).Seed(ctx, data)
	if err != nil {
		log.Fatal("Failed to seed catalog", zap.Error(err))
	}
	log.Info("Seed data loaded", zap.Int("products", result.Products), zap.Int("users", result.Users))
}

// purgeSessionRows deletes session rows nobody has written for sessionRowRetention
func purgeSessionRows(ctx context.Context, store *persistence.GormKVStore, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeBefore(ctx, time.Now().Add(-sessionRowRetention))
			if err != nil {
				log.Warn("Failed to purge stale sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("Purged stale sessions", zap.Int64("rows", n))
			}
		}
	}
}
