package app

import (
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/controller"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/pkg/configwatcher"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/security"
	"coursehub_backend/pkg/tracing"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services *services
	tracer   *sdktrace.TracerProvider

	// ctx 控制所有后台协程（限流清理、配置监听），Run 退出时取消
	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	instructor *repository.InstructorRepository
	category   *repository.CategoryRepository
	course     *repository.CourseRepository
	lecture    *repository.LectureRepository
	quiz       *repository.QuizRepository
	enrollment *repository.EnrollmentRepository
	note       *repository.NoteRepository
	review     *repository.ReviewRepository
	contact    *repository.ContactRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	access     *service.AccessService
	instructor *service.InstructorService
	category   *service.CategoryService
	course     *service.CourseService
	lecture    *service.LectureService
	quiz       *service.QuizService
	enrollment *service.EnrollmentService
	note       *service.NoteService
	review     *service.ReviewService
	contact    *service.ContactService
	ai         *service.AIService
	ratingJob  *service.RatingJob
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	instructor *controller.InstructorController
	category   *controller.CategoryController
	course     *controller.CourseController
	lecture    *controller.LectureController
	quiz       *controller.QuizController
	enrollment *controller.EnrollmentController
	note       *controller.NoteController
	review     *controller.ReviewController
	contact    *controller.ContactController
	ai         *controller.AIController
	health     *controller.HealthController
}

// OnConfigReload 注册配置热加载回调
func (a *App) OnConfigReload(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		instructor: repository.NewInstructorRepository(db),
		category:   repository.NewCategoryRepository(db),
		course:     repository.NewCourseRepository(db),
		lecture:    repository.NewLectureRepository(db),
		quiz:       repository.NewQuizRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		note:       repository.NewNoteRepository(db),
		review:     repository.NewReviewRepository(db),
		contact:    repository.NewContactRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.storage = service.NewStorageService(a.ctx, &cfg.Storage)
	s.access = service.NewAccessService(repos.enrollment, repos.course, repos.instructor, repos.quiz)
	s.instructor = service.NewInstructorService(repos.instructor)
	s.category = service.NewCategoryService(repos.category)
	s.quiz = service.NewQuizService(repos.quiz, service.NewQuizCache(rdb, cfg.Cache.QuizListTTL()), s.access)
	s.course = service.NewCourseService(repos.course, repos.category, repos.instructor, s.access, s.storage, s.quiz)
	s.lecture = service.NewLectureService(repos.lecture, s.access, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.instructor)
	s.note = service.NewNoteService(repos.note, repos.lecture)
	s.review = service.NewReviewService(repos.review, repos.course)
	s.contact = service.NewContactService(repos.contact)
	s.ai = service.NewAIService(cfg.AI)
	s.ratingJob = service.NewRatingJob(repos.course, cfg.Cron.RatingRecompute)

	a.OnConfigReload(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		logger.Log.Info("AI config reloaded", zap.Strings("models", newCfg.AI.Models))
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		instructor: controller.NewInstructorController(s.instructor, s.course),
		category:   controller.NewCategoryController(s.category),
		course:     controller.NewCourseController(s.course),
		lecture:    controller.NewLectureController(s.lecture),
		quiz:       controller.NewQuizController(s.quiz),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		note:       controller.NewNoteController(s.note),
		review:     controller.NewReviewController(s.review),
		contact:    controller.NewContactController(s.contact),
		ai:         controller.NewAIController(s.ai),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	if err := s.ratingJob.Start(); err != nil {
		logger.Log.Error("Failed to start rating job", zap.Error(err))
	}

	if a.Config.Path == "" {
		return
	}
	configFile := filepath.Join(a.Config.Path, "config.yaml")
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, configFile, a.reloadConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式默认不自动迁移，需显式 -migrate
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时退化为直查数据库
		logger.Log.Error("Failed to initialize redis, quiz cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("coursehub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			cfg.Tracing.Enabled = false
		} else {
			app.tracer = tp
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(svcs)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
	a.Close()
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil && a.services.ratingJob != nil {
		<-a.services.ratingJob.Stop().Done()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Log.Sync()
}
