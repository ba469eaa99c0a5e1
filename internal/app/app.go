package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"ravencode_backend/internal/config"
	"ravencode_backend/internal/controller"
	"ravencode_backend/internal/llm"
	"ravencode_backend/internal/questiongen"
	"ravencode_backend/internal/repository"
	"ravencode_backend/internal/service"
	"ravencode_backend/pkg/configwatcher"
	"ravencode_backend/pkg/database"
	"ravencode_backend/pkg/logger"
	"ravencode_backend/pkg/monitoring"
	"ravencode_backend/pkg/security"
	"ravencode_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigFile string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client
	Rules      *service.RulesHolder

	repos           *repositories
	services        *services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	content  *repository.ContentRepository
	progress *repository.ProgressRepository
	history  *repository.HistoryRepository
	cache    *repository.ContentCache
}

type services struct {
	auth     *service.AuthService
	content  *service.ContentService
	practice *service.PracticeService
	lives    *service.LivesService
	history  *service.HistoryService
	storage  *service.StorageService
	email    *service.EmailService
	summary  *service.SummaryService
	seed     *service.SeedService
}

type controllers struct {
	auth     *controller.AuthController
	content  *controller.ContentController
	practice *controller.PracticeController
	lives    *controller.LivesController
	job      *controller.JobController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories() *repositories {
	ttl := time.Duration(a.Config.Practice.ContentCacheMinutes) * time.Minute
	return &repositories{
		user:     repository.NewUserRepository(a.DB),
		content:  repository.NewContentRepository(a.DB),
		progress: repository.NewProgressRepository(a.DB),
		history:  repository.NewHistoryRepository(a.DB),
		cache:    repository.NewContentCache(a.Redis, ttl),
	}
}

func newQuestionGenerator(ctx context.Context, cfg config.AIConfig) (*questiongen.LLMGenerator, error) {
	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if mock, ok := provider.(*llm.MockProvider); ok {
		logger.Log.Warn("AI provider is mock, serving the built-in demo question set")
		mock.Fallback = questiongen.DemoResponder
	}

	genCfg := questiongen.DefaultConfig()
	if cfg.MaxTokens > 0 {
		genCfg.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		genCfg.Temperature = cfg.Temperature
	}
	if cfg.Timeout > 0 {
		genCfg.Timeout = cfg.Timeout
	}
	return questiongen.New(provider, genCfg), nil
}

func (a *App) initServices(ctx context.Context, repos *repositories) (*services, error) {
	cfg := a.Config
	s := &services{}

	generator, err := newQuestionGenerator(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("question generator: %w", err)
	}

	s.email, err = service.NewEmailService(cfg.Email.AWSRegion, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.AppBaseURL)
	if err != nil {
		return nil, fmt.Errorf("email service: %w", err)
	}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg, a.Rules)
	s.content = service.NewContentService(repos.content, repos.progress, repos.cache)
	s.practice = service.NewPracticeService(repos.user, s.content, repos.history, generator, a.Rules)
	s.lives = service.NewLivesService(repos.user, a.Rules)
	s.history = service.NewHistoryService(repos.history)
	s.summary = service.NewSummaryService(repos.history, repos.user, s.email, s.storage)
	s.seed = service.NewSeedService(a.DB, repos.cache, a.Rules)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		content:  controller.NewContentController(s.content),
		practice: controller.NewPracticeController(s.practice, s.history),
		lives:    controller.NewLivesController(s.lives),
		job:      controller.NewJobController(s.summary),
		health:   controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine) {
	cfg := a.Config
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects storage and builds every service. The HTTP router is
// created too but nothing listens until Run.
func NewApp(ctx context.Context, cfg *config.Config, configFile string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存是可选的，连接失败时直接读库
		logger.Log.Warn("Redis unavailable, lesson content cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config:     cfg,
		ConfigFile: configFile,
		DB:         db,
		Redis:      rdb,
		Rules:      service.NewRulesHolder(service.RulesFromConfig(cfg)),
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Rules.Set(service.RulesFromConfig(newCfg))
		logger.Log.Info("Practice rules reloaded",
			zap.Int("lives_max", newCfg.Lives.Max),
			zap.Int("refill_minutes", newCfg.Lives.RefillMinutes),
			zap.Bool("refund_on_generation_failure", newCfg.Practice.RefundOnGenerationFailure))
	})

	app.repos = app.initRepositories()
	app.services, err = app.initServices(ctx, app.repos)
	if err != nil {
		return nil, err
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		app.tracer, err = tracing.InitTracer("ravencode", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router
	app.setupMiddlewares(router)
	app.registerRoutes(router, app.initControllers(app.services))

	return app, nil
}

// Migrate runs the schema migration regardless of server mode.
func (a *App) Migrate() error {
	return database.Migrate(a.DB)
}

func (a *App) SeedService() *service.SeedService {
	return a.services.seed
}

func (a *App) SummaryService() *service.SummaryService {
	return a.services.summary
}

// Run serves HTTP and watches the config file until ctx is cancelled, then
// shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	if a.ConfigFile != "" {
		go func() {
			err := configwatcher.WatchConfig(ctx, a.ConfigFile, func(newCfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(newCfg)
				}
			})
			if err != nil {
				logger.Log.Warn("Config hot reload disabled", zap.String("file", filepath.Clean(a.ConfigFile)), zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Log.Info("Server exiting")
	return nil
}

// Close releases background workers and connections.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	_ = logger.Log.Sync()
}
