package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/catalog"
	identityapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/identity"
	portapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/port"
	pricingapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/pricing"
	quotationapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	scheduleapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/schedule"
	tariffapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/tariff"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/auth"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/cache"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/event"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/logger"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/persistence"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/printing"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/robaws"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/scheduler"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/storage"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/telemetry"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/handler"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/middleware"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Quotation Admin API
//	@version		1.0
//	@description	Freight quotation requests, carrier tariffs, margin pricing and Robaws CRM export
//
//	@contact.name	API Support
//	@contact.url	https://github.com/Patrickscodegit/Beconnect-sub010
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
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
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Telemetry comes first so the OTLP log bridge can be teed into the logger
	providers, err := telemetry.Setup(rootCtx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled {
		level, perr := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
		if perr != nil {
			level = zapcore.InfoLevel
		}
		if teed, lerr := logger.New(logCfg, providers.ZapCore(level)); lerr == nil {
			log = teed
		} else {
			log.Warn("OTLP log bridge disabled", zap.Error(lerr))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting quotation backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := telemetry.RegisterPoolMetrics(providers.Meter(), sqlDB); err != nil {
			log.Warn("Connection pool metrics disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Caches, idempotency and token blacklist. Production refuses to run
	// several instances without a shared store.
	stores, err := cache.NewStores(rootCtx, cfg.Redis, cfg.App.IsProduction() && cfg.Redis.Enabled, log)
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}

	objectStore, err := storage.New(rootCtx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Robaws. The interface values stay nil when the client is not configured.
	var (
		robawsClient  integration.RobawsClient
		articleSource catalogapp.ArticleSource
	)
	client, err := robaws.NewClient(cfg.Robaws, robaws.WithLogger(log))
	switch {
	case err == nil:
		robawsClient = client
		articleSource = client
		log.Info("Robaws client configured", zap.String("base_url", cfg.Robaws.BaseURL))
	case errors.Is(err, integration.ErrRobawsNotConfigured):
		log.Warn("Robaws is not configured, export and article sync are disabled")
	default:
		log.Fatal("Failed to create Robaws client", zap.Error(err))
	}

	// Offer PDFs
	var offerRenderer quotationapp.OfferRenderer
	if cfg.Printing.Enabled {
		pdf := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() {
			if err := pdf.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		rendered, err := printing.NewOfferRenderer(pdf, cfg.Printing)
		if err != nil {
			log.Fatal("Failed to initialize offer renderer", zap.Error(err))
		}
		offerRenderer = rendered
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	portRepo := persistence.NewGormPortRepository(db.DB)
	aliasRepo := persistence.NewGormPortAliasRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	ruleRepo := persistence.NewGormMarginRuleRepository(db.DB)
	profileRepo := persistence.NewGormPricingProfileRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	syncRunRepo := persistence.NewGormArticleSyncRunRepository(db.DB)
	tariffRepo := persistence.NewGormTariffRepository(db.DB)
	mappingRepo := persistence.NewGormCarrierMappingRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	attachmentRepo := persistence.NewGormQuotationAttachmentRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log, event.WithWorkers(4, 256))
	articleCache := stores.ArticleCache()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, stores.Blacklist, cfg.Auth, log)
	userService := identityapp.NewUserService(userRepo, stores.Blacklist, jwtService.GetRefreshTokenExpiration(), eventBus, log)

	portService := portapp.NewPortService(portRepo, aliasRepo)
	workbenchService := portapp.NewAliasWorkbenchService(portRepo, aliasRepo)
	scheduleService := scheduleapp.NewScheduleService(scheduleRepo, portRepo, log)
	pricingService := pricingapp.NewPricingService(ruleRepo, profileRepo)

	articleService := catalogapp.NewArticleService(articleRepo, articleCache, log)
	syncService := catalogapp.NewArticleSyncService(articleSource, articleRepo, syncRunRepo, articleCache, eventBus, log)
	syncService.SetConfig(catalogapp.ArticleSyncConfig{
		PageSize:   cfg.Robaws.PageSize,
		StaleAfter: cfg.Sync.StaleAfter,
	})

	dateSync := tariffapp.NewTariffDateSyncService(mappingRepo, articleRepo, eventBus, log)
	tariffService := tariffapp.NewTariffService(
		tariffRepo, mappingRepo, persistence.NewGormTariffTransactionScope(db.DB), dateSync, eventBus, log,
	)

	quotationService := quotationapp.NewQuotationService(
		persistence.NewGormQuotationTransactionScope(db.DB),
		quotationRepo,
		scheduleRepo,
		articleService,
		pricingService,
		portService,
		portRepo,
		eventBus,
		log,
	)
	exportService := quotationapp.NewExportService(quotationRepo, scheduleRepo, robawsClient, log)
	offerService := quotationapp.NewOfferService(quotationRepo, attachmentRepo, offerRenderer, objectStore, log)
	attachmentService := quotationapp.NewAttachmentService(attachmentRepo, quotationRepo, objectStore, log)
	attachmentConfig := quotationapp.DefaultAttachmentServiceConfig()
	if cfg.Storage.PresignExpiry > 0 {
		attachmentConfig.UploadURLExpiry = cfg.Storage.PresignExpiry
	}
	attachmentService.SetConfig(attachmentConfig)

	// Event handlers
	eventBus.Subscribe(catalogapp.NewArticleCacheInvalidationHandler(articleCache, log))
	eventBus.Subscribe(tariffapp.NewTariffUpdatedHandler(tariffRepo, dateSync, log))
	quoteMetrics, err := telemetry.NewQuoteMetrics(providers.Meter())
	if err != nil {
		log.Warn("Quotation metrics disabled", zap.Error(err))
	} else {
		eventBus.Subscribe(quoteMetrics)
	}
	if cfg.Robaws.AutoExport && robawsClient != nil {
		eventBus.Subscribe(quotationapp.NewQuotationSubmittedHandler(exportService, stores.Idempotency, log))
		log.Info("Automatic Robaws export enabled")
	}
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Article sync scheduler
	var syncScheduler *scheduler.ArticleSyncScheduler
	if cfg.Sync.Enabled && articleSource != nil {
		syncScheduler = scheduler.NewArticleSyncScheduler(syncService, cfg.Sync, log)
		if err := syncScheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start article sync scheduler", zap.Error(err))
		}
		log.Info("Article sync scheduler started",
			zap.Duration("interval", cfg.Sync.Interval),
			zap.Duration("initial_delay", cfg.Sync.InitialDelay),
		)
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if stores.Client != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		})
	}
	handlers := router.Handlers{
		System:    systemHandler,
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Port:      handler.NewPortHandler(portService, workbenchService),
		Tariff:    handler.NewTariffHandler(tariffService),
		Article:   handler.NewArticleHandler(articleService, syncService),
		Pricing:   handler.NewPricingHandler(pricingService),
		Quotation: handler.NewQuotationHandler(quotationService, exportService, offerService, attachmentService),
		Portal:    handler.NewPortalHandler(quotationService, attachmentService),
		Schedule:  handler.NewScheduleHandler(scheduleService),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, logging, recovery, tracing, metrics,
	// headers, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName)...)
		if httpMetrics, err := telemetry.NewHTTPMetrics(providers.Meter()); err == nil {
			engine.Use(middleware.Metrics(httpMetrics))
		} else {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		if cfg.Telemetry.ProfilingEnabled {
			engine.Use(middleware.Profiling())
		}
	}
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	guards := router.Guards{
		Authenticated: middleware.JWTAuth(authService),
		Staff:         middleware.RequireStaff(),
		Admin:         middleware.RequireRoles("admin"),
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(rootCtx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		guards.Login = middleware.RateLimit(limiter)
		log.Info("Login rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	router.NewRouter(engine).Mount(handlers, guards).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if syncScheduler != nil {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Error stopping article sync scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	cancelRoot()
	if err := stores.Close(); err != nil {
		log.Error("Error closing caches", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited")
}
