package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/controller"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
	"exam_prep_backend/pkg/monitoring"
	"exam_prep_backend/pkg/security"
	"exam_prep_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	stopTimer chan struct{}
}

type repositories struct {
	user     *repository.UserRepository
	category *repository.ExamCategoryRepository
	topic    *repository.TopicRepository
	test     *repository.TestRepository
	attempt  *repository.UserTestRepository
	response *repository.UserResponseRepository
	progress *repository.UserProgressRepository
	badge    *repository.BadgeRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	catalog  *service.CatalogService
	test     *service.TestService
	session  *service.SessionService
	progress *service.ProgressService
	badge    *service.BadgeService
}

type controllers struct {
	auth     *controller.AuthController
	catalog  *controller.CatalogController
	test     *controller.TestController
	session  *controller.SessionController
	progress *controller.ProgressController
	badge    *controller.BadgeController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		category: repository.NewExamCategoryRepository(db),
		topic:    repository.NewTopicRepository(db),
		test:     repository.NewTestRepository(db),
		attempt:  repository.NewUserTestRepository(db),
		response: repository.NewUserResponseRepository(db),
		progress: repository.NewUserProgressRepository(db),
		badge:    repository.NewBadgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.catalog = service.NewCatalogService(repos.category, repos.topic)
	s.test = service.NewTestService(repos.test, repos.category, repos.topic, s.storage, rdb, db)
	s.badge = service.NewBadgeService(repos.badge)
	s.progress = service.NewProgressService(repos.progress, repos.attempt, repos.user, s.badge)
	s.session = service.NewSessionService(repos.test, repos.attempt, repos.response, s.progress, s.test, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		catalog:  controller.NewCatalogController(s.catalog),
		test:     controller.NewTestController(s.test),
		session:  controller.NewSessionController(s.session),
		progress: controller.NewProgressController(s.progress, s.session, s.badge, s.auth),
		badge:    controller.NewBadgeController(s.badge),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 启动超时尝试的自动提交扫描。
// 计时用尽的进行中尝试由这里统一兜底提交，与手动提交共享同一判分路径。
func (a *App) startBackgroundTasks(s *services) {
	a.stopTimer = make(chan struct{})
	go func() {
		ticker := time.NewTicker(a.Config.Timer.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.session.ProcessExpiredAttempts(); err != nil {
					logger.Log.Error("expired attempt sweep error", zap.Error(err))
				}
			case <-a.stopTimer:
				return
			}
		}
	}()
}

// ApplyConfig 热加载配置：只接管重启代价低且读取时机在请求期的字段。
// 中间件持有的是 *config.Config，原地覆盖后下一个请求即生效。
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config.JWT = newCfg.JWT
	a.Config.Storage = newCfg.Storage
	logger.Log.Info("configuration reloaded")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-prep-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopTimer != nil {
		close(a.stopTimer)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	_ = logger.Log.Sync()
	log.Println("Server exiting")
}
