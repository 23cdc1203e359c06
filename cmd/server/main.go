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
	agendaapp "github.com/pulosarok/desa/internal/application/agenda"
	beneficiaryapp "github.com/pulosarok/desa/internal/application/beneficiary"
	businessapp "github.com/pulosarok/desa/internal/application/business"
	identityapp "github.com/pulosarok/desa/internal/application/identity"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
	organizationapp "github.com/pulosarok/desa/internal/application/organization"
	posyanduapp "github.com/pulosarok/desa/internal/application/posyandu"
	printingapp "github.com/pulosarok/desa/internal/application/printing"
	publicapp "github.com/pulosarok/desa/internal/application/public"
	referenceapp "github.com/pulosarok/desa/internal/application/reference"
	tourismapp "github.com/pulosarok/desa/internal/application/tourism"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/infrastructure/ai"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/pulosarok/desa/internal/infrastructure/cache"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/pulosarok/desa/internal/infrastructure/event"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/infrastructure/persistence"
	"github.com/pulosarok/desa/internal/infrastructure/printing"
	"github.com/pulosarok/desa/internal/infrastructure/scheduler"
	"github.com/pulosarok/desa/internal/infrastructure/storage"
	"github.com/pulosarok/desa/internal/infrastructure/telemetry"
	"github.com/pulosarok/desa/internal/interfaces/http/handler"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
	"github.com/pulosarok/desa/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/pulosarok/desa/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Desa API
//	@version		1.0
//	@description	Village administration backend: residents, letters, social aid, UMKM registries, posyandu, tourism, organizations, the village agenda and the public website
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/pulosarok/desa

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

const defaultShutdownTimeout = 30 * time.Second

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

	log.Info("Starting Desa Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry: traces, metrics, log export and continuous profiling
	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:  cfg.Telemetry.ProfilingEnabled,
		PyroscopeAddress:  cfg.Telemetry.PyroscopeAddress,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	otelCore := logProvider.Core(logger.ParseLevel(cfg.Log.Level))
	log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelCore)
	}))
	profiler, err := telemetry.NewProfiler(telCfg, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.Enabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterGormTracing(db.DB, cfg.Database.DBName, cfg.Telemetry.DBLogFullSQL); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}
	if err := db.AutoMigrate(ctx); err != nil {
		log.Fatal("Failed to prepare sqlite schema", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis is optional; without it locks, quotas and caches stay in-process
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
	} else {
		log.Warn("Redis not configured, using in-process locks and caches")
	}
	locker := cache.NewLocker(redisClient)
	quota := cache.NewQuotaCounter(redisClient)
	valueCache := cache.NewValueCache(redisClient, log)
	processed := cache.NewIdempotencyStore(redisClient)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	store, err := storage.New(ctx, &cfg.Storage, cfg.JWT.Secret, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	dusunRepo := persistence.NewGormDusunRepository(db.DB)
	lorongRepo := persistence.NewGormLorongRepository(db.DB)
	pendudukRepo := persistence.NewGormPendudukRepository(db.DB)
	letterRepo := persistence.NewGormLetterRepository(db.DB)
	letterTypeRepo := persistence.NewGormLetterTypeRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	trackingRepo := persistence.NewGormTrackingRepository(db.DB)
	recipientRepo := persistence.NewGormRecipientRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	validationRepo := persistence.NewGormAIValidationRepository(db.DB)
	signatureRepo := persistence.NewGormSignatureRepository(db.DB)
	artifactRepo := persistence.NewGormArtifactRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	beneficiaryCategoryRepo := persistence.NewGormBeneficiaryCategoryRepository(db.DB)
	beneficiaryRepo := persistence.NewGormBeneficiaryRepository(db.DB)
	programRepo := persistence.NewGormProgramRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	verificationRepo := persistence.NewGormVerificationRepository(db.DB)
	tourismLocationRepo := persistence.NewGormTourismLocationRepository(db.DB)

	// Event bus: in-process, handlers marked Background run off the request path
	eventBus := event.NewInMemoryEventBus(log)

	// Metrics shared by the letter pipeline and artifact cache
	letterMetrics, err := telemetry.NewLetterMetrics(meterProvider.Meter("desa/letters"))
	if err != nil {
		log.Fatal("Failed to register letter metrics", zap.Error(err))
	}

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(tenantRepo, staffRepo, jwtService, blacklist, eventBus, identityapp.DefaultAuthServiceConfig(), log)
	staffService := identityapp.NewStaffService(staffRepo, eventBus, log)
	tenantService := identityapp.NewTenantService(tenantRepo)

	// Reference data
	referenceService := referenceapp.NewService(dusunRepo, lorongRepo, pendudukRepo, log)

	// Letters
	settingsService := letterapp.NewSettingsService(settingsRepo, letterapp.SettingsDefaults{
		VillageName:         cfg.Letter.DefaultVillageName,
		VerificationBaseURL: cfg.Letter.VerificationBaseURL,
	}, log)
	letterScope := persistence.NewGormLetterTransactionScope(db.DB)
	letterService := letterapp.NewLetterService(letterapp.LetterServiceDeps{
		Scope:       letterScope,
		Letters:     letterRepo,
		Types:       letterTypeRepo,
		Templates:   templateRepo,
		Tracking:    trackingRepo,
		Sequences:   sequenceRepo,
		Validations: validationRepo,
		Residents:   pendudukRepo,
		Settings:    settingsService,
		Events:      eventBus,
		Metrics:     letterMetrics,
		Logger:      log,
	})
	letterTypeService := letterapp.NewLetterTypeService(letterTypeRepo, letterRepo, log)
	templateService := letterapp.NewTemplateService(templateRepo, letterRepo, letterTypeRepo, log)
	recipientService := letterapp.NewRecipientService(recipientRepo, letterRepo)
	attachmentService := letterapp.NewAttachmentService(attachmentRepo, letterRepo, store, cfg.Storage.PresignExpiry, log)
	signatureService := letterapp.NewSignatureService(letterScope, letterRepo, signatureRepo, settingsService, eventBus, log)
	publicLetterService := letterapp.NewPublicService(letterRepo, letterTypeRepo, trackingRepo, pendudukRepo, settingsService)

	// AI assistant: a nil model keeps the endpoints answering AI_DISABLED
	var model ai.Model
	if cfg.AI.Enabled {
		gemini, err := ai.NewGeminiModel(ctx, &cfg.AI)
		if err != nil {
			log.Error("Failed to initialize Gemini, AI assistance disabled", zap.Error(err))
		} else {
			model = gemini
		}
	}
	assistant := ai.NewAssistant(model, quota, ai.Options{
		MaxRequestsPerDay: cfg.AI.MaxRequestsPerDay,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		Timeout:           cfg.AI.Timeout,
		Logger:            log,
	})
	aiService := letterapp.NewAIService(letterScope, letterRepo, letterTypeRepo, settingsService, assistant, eventBus, letterMetrics, log)

	// Artifacts: QR codes always, PDFs when a browser is reachable
	var renderer printing.PDFRenderer
	chromedpRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		ExecPath:       cfg.Printing.ChromePath,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Warn("PDF renderer unavailable, only QR codes will be served", zap.Error(err))
	} else {
		renderer = chromedpRenderer
		defer func() {
			if err := chromedpRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
	}
	artifactService := printingapp.NewArtifactService(printingapp.ArtifactServiceDeps{
		Letters:    letterRepo,
		Types:      letterTypeRepo,
		Artifacts:  artifactRepo,
		Residents:  pendudukRepo,
		Settings:   settingsService,
		Store:      store,
		Renderer:   renderer,
		Locker:     locker,
		Metrics:    letterMetrics,
		Logger:     log,
		LockTTL:    cfg.Letter.RenderLockTTL,
		Paper:      printing.ParsePaper(cfg.Printing.PaperSize),
		SweepBatch: cfg.Scheduler.ArtifactSweepBatch,
	})
	eventBus.Subscribe(printingapp.NewPrewarmHandler(artifactService, processed, log))
	log.Info("Registered event handler", zap.String("handler", "PrewarmHandler"))

	// Social aid
	registryService := beneficiaryapp.NewRegistryService(beneficiaryCategoryRepo, beneficiaryRepo, verificationRepo, pendudukRepo, log)
	aidService := beneficiaryapp.NewAidService(persistence.NewGormAidTransactionScope(db.DB), programRepo, distributionRepo, beneficiaryRepo, log)

	// Community registries
	businessService := businessapp.NewService(businessapp.Repositories{
		Categories:  persistence.NewGormBusinessCategoryRepository(db.DB),
		Koperasi:    persistence.NewGormKoperasiRepository(db.DB),
		BUMG:        persistence.NewGormBUMGRepository(db.DB),
		UKM:         persistence.NewGormUKMRepository(db.DB),
		Aset:        persistence.NewGormAsetRepository(db.DB),
		LayananJasa: persistence.NewGormLayananJasaRepository(db.DB),
	}, log)
	posyanduService := posyanduapp.NewService(posyanduapp.Repositories{
		Locations:     persistence.NewGormPosyanduLocationRepository(db.DB),
		Schedules:     persistence.NewGormScheduleRepository(db.DB),
		HealthRecords: persistence.NewGormHealthRecordRepository(db.DB),
		Immunizations: persistence.NewGormImmunizationRepository(db.DB),
		Nutrition:     persistence.NewGormNutritionRepository(db.DB),
	}, pendudukRepo, log)
	tourismService := tourismapp.NewService(tourismapp.Repositories{
		Categories: persistence.NewGormTourismCategoryRepository(db.DB),
		Locations:  tourismLocationRepo,
		Reviews:    persistence.NewGormReviewRepository(db.DB),
		Events:     persistence.NewGormTourismEventRepository(db.DB),
		Packages:   persistence.NewGormTourismPackageRepository(db.DB),
	}, log)
	organizationService := organizationapp.NewService(organizationapp.Repositories{
		Types:         persistence.NewGormOrganizationTypeRepository(db.DB),
		Organizations: persistence.NewGormOrganizationRepository(db.DB),
		Periods:       persistence.NewGormPeriodRepository(db.DB),
		Members:       persistence.NewGormMemberRepository(db.DB),
		Activities:    persistence.NewGormActivityRepository(db.DB),
	}, persistence.NewGormOrganizationTransactionScope(db.DB), pendudukRepo, log)
	agendaService := agendaapp.NewService(agendaapp.Repositories{
		Categories:   persistence.NewGormEventCategoryRepository(db.DB),
		Events:       persistence.NewGormEventRepository(db.DB),
		Participants: persistence.NewGormParticipantRepository(db.DB),
	}, persistence.NewGormAgendaTransactionScope(db.DB), pendudukRepo, log)

	// Public website
	newsRepo := persistence.NewGormNewsRepository(db.DB)
	rubricRepo := persistence.NewGormRubricRepository(db.DB)
	contentService := publicapp.NewContentService(
		persistence.NewGormProfileRepository(db.DB),
		newsRepo,
		rubricRepo,
		persistence.NewGormContactMessageRepository(db.DB),
		cfg.Letter.DefaultVillageName,
		log,
	)
	commentService := publicapp.NewCommentService(rubricRepo, newsRepo, persistence.NewGormCommentRepository(db.DB), log)
	statsService := publicapp.NewStatsService(publicapp.StatsSources{
		Population:    pendudukRepo,
		Dusun:         dusunRepo,
		Beneficiaries: beneficiaryRepo,
		Business:      businessService,
		Tourism:       tourismLocationRepo,
		Letters:       letterRepo,
	}, valueCache, 5*time.Minute, log)

	// Start event bus
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Periodic jobs
	jobs := scheduler.New(locker, log)
	if cfg.Scheduler.Enabled {
		if err := jobs.Register(scheduler.Task{
			Name:     "artifact-sweep",
			Interval: cfg.Scheduler.ArtifactSweepInterval,
			Run:      artifactService.Sweep,
		}); err != nil {
			log.Fatal("Failed to register artifact sweep", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		log.Info("Scheduler started", zap.Duration("artifact_sweep_interval", cfg.Scheduler.ArtifactSweepInterval))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup custom validators (NIK, json field names)
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	} else if err := engine.SetTrustedProxies(nil); err != nil {
		log.Fatal("Failed to disable trusted proxies", zap.Error(err))
	}

	// Global middleware, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health", "/healthz", "/ready"},
	}))
	if cfg.Telemetry.MetricsEnabled {
		httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("desa/http"))
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}
	if profiler.Enabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(logger.GinMiddleware(log))
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSMaxAge = cfg.HTTP.HSTSMaxAge
	engine.Use(middleware.SecureWithConfig(securityConfig))

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
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxBytes: cfg.HTTP.MaxBodySize,
		// signed attachment uploads stream straight to the file store
		PathLimits: map[string]int64{"/api/v1/files": letter.MaxAttachmentSize},
	}))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		limiters = append(limiters, rateLimiter)
		engine.Use(middleware.RateLimit(rateLimiter))
	}
	publicLimiter := middleware.NewRateLimiter(cfg.HTTP.PublicRateLimitRPS, cfg.HTTP.PublicRateLimitBurst)
	limiters = append(limiters, publicLimiter)

	// Health check endpoint (outside API versioning)
	systemHandler := handler.NewSystemHandler(handler.SystemOptions{
		Name:        cfg.App.Name,
		Version:     version,
		Environment: cfg.App.Env,
		Features: map[string]bool{
			"ai":           model != nil,
			"pdf":          renderer != nil,
			"redis":        redisClient != nil,
			"scheduler":    cfg.Scheduler.Enabled,
			"telemetry":    cfg.Telemetry.Enabled,
			"object_store": cfg.Storage.Backend == "s3",
		},
		Database: db,
	})
	engine.GET("/health", systemHandler.Health)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	if cfg.Swagger.Enabled {
		docs := middleware.SwaggerProtection(middleware.SwaggerConfig{
			RequireAuth:     cfg.Swagger.RequireAuth || cfg.IsProduction(),
			Roles:           cfg.Swagger.Roles,
			AllowedNetworks: cfg.Swagger.AllowedNetworks,
			Logger:          log,
		}, jwtMiddleware)
		engine.GET("/swagger/*any", append(docs, ginSwagger.WrapHandler(swaggerFiles.Handler))...)
	}

	tenantMiddleware := middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled:   true,
		JWTEnabled:      true,
		DefaultTenantID: cfg.App.DefaultTenantID,
		SkipPaths:       []string{"/api/v1/system", "/api/v1/files"},
		Resolver: middleware.TenantResolverFunc(func(ctx context.Context, key string) (*middleware.TenantInfo, error) {
			tenant, err := tenantService.Resolve(ctx, key)
			if err != nil {
				return nil, err
			}
			return &middleware.TenantInfo{ID: tenant.ID, Code: tenant.Code}, nil
		}),
		Logger: log,
	})

	h := &handlers{
		auth:         handler.NewAuthHandler(authService),
		staff:        handler.NewStaffHandler(staffService, tenantService),
		reference:    handler.NewReferenceHandler(referenceService),
		letter:       handler.NewLetterHandler(letterService),
		letterConfig: handler.NewLetterConfigHandler(letterTypeService, templateService, settingsService),
		letterDocument: handler.NewLetterDocumentHandler(handler.LetterDocumentServices{
			Recipients:     recipientService,
			Attachments:    attachmentService,
			Signatures:     signatureService,
			AI:             aiService,
			Artifacts:      artifactService,
			ArtifactURLTTL: cfg.Storage.PresignExpiry,
		}),
		beneficiary:  handler.NewBeneficiaryHandler(registryService, aidService),
		business:     handler.NewBusinessHandler(businessService),
		posyandu:     handler.NewPosyanduHandler(posyanduService),
		tourism:      handler.NewTourismHandler(tourismService),
		content:      handler.NewContentHandler(contentService),
		comments:     handler.NewCommentHandler(commentService),
		organization: handler.NewOrganizationHandler(organizationService),
		agenda:       handler.NewAgendaHandler(agendaService),
		public: handler.NewPublicHandler(handler.PublicServices{
			Content:  contentService,
			Comments: commentService,
			Stats:    statsService,
			Tourism:  tourismService,
			Letters:  publicLetterService,
			Agenda:   agendaService,
		}),
		system: systemHandler,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		h.files = handler.NewFileHandler(local, letter.MaxAttachmentSize)
	}

	// Initialize router; JWT runs before tenant resolution so the token's village wins
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware, tenantMiddleware)
	registerRoutes(r, h, registries{
		business:     businessService,
		posyandu:     posyanduService,
		tourism:      tourismService,
		organization: organizationService,
		agenda:       agendaService,
		comments:     commentService,
	}, publicLimiter)
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	for _, l := range limiters {
		l.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
