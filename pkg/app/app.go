// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/scenevault/pkg/api"
	"github.com/yeisme/scenevault/pkg/configs"
	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/jobs"
	"github.com/yeisme/scenevault/pkg/internal/service"
	"github.com/yeisme/scenevault/pkg/internal/storage"
	"github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/metrics"
	"github.com/yeisme/scenevault/pkg/middleware"
	"github.com/yeisme/scenevault/pkg/scheduler"
)

// App 聚合 HTTP 引擎、存储与调度器.
type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

// NewApp 完成全部初始化：配置、日志、指标、存储、设置单例、路由与定时任务.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	// 初始化存储
	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 建表与设置单例
	if err := prepareDatabase(ctx, manager); err != nil {
		fmt.Printf("Error preparing database: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.BodyLimitMiddleware(config.Server.MaxBodyBytes),
		middleware.StorageMiddleware(manager),
	)

	if config.Server.EnableGzip {
		engine.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	// 定时任务
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterJobs(sched, manager); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	engine.Use(middleware.SchedulerMiddleware(sched))

	api.RegisterGroup(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}
}

// prepareDatabase 迁移模型并保证设置单例行存在.
func prepareDatabase(ctx contextPkg.Context, manager *storage.Manager) error {
	if err := storage.AutoMigrate(manager.DB); err != nil {
		return err
	}

	svcCtx := ctxPkg.WithStorageManager(ctx, manager)

	return service.NewSettingsService(svcCtx).Ensure(svcCtx)
}

// Run 启动 HTTP 服务并在收到信号后优雅退出.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	a.scheduler.Start()

	errCh := make(chan error, 1)

	go func() {
		log.Logger().Info().Str("addr", addr).Msg("http server listening")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetShutdownTimeout())
	defer cancel()

	if err := a.scheduler.Stop(); err != nil {
		log.Logger().Warn().Err(err).Msg("scheduler shutdown failed")
	}

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	return a.manager.Close()
}
