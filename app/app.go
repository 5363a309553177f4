package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "video-pipeline-service/ddd/application/app"
	"video-pipeline-service/ddd/infrastructure/database/dao"
	"video-pipeline-service/internal/resource"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
	"video-pipeline-service/pkg/manager"
	"video-pipeline-service/pkg/middleware"
	"video-pipeline-service/pkg/registry"
	"video-pipeline-service/pkg/task"

	_ "video-pipeline-service/ddd/adapter/component"
	_ "video-pipeline-service/ddd/adapter/http"
	_ "video-pipeline-service/ddd/infrastructure/worker"
)

// Run boots the service: config, logger, resources, components,
// controllers, background tasks, then blocks until a shutdown signal.
func Run() {
	fmt.Println("[STARTUP] Starting video pipeline service...")

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)

	logger.Infof("Video pipeline service starting config=%s", cfgPath)

	mustCheckMediaBinaries(cfg)

	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	db := resource.DefaultMySqlResource().DB()
	if err := dao.AutoMigrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to migrate database error=%v", err))
	}

	processingAppService := appsvc.DefaultProcessingApp()

	deps := &manager.Dependencies{
		DB:                   db,
		Config:               cfg,
		ProcessingAppService: processingAppService,
	}

	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.Default()
	engine.Use(middleware.RequestContext())
	if cfg.JWT.Enabled {
		engine.Use(middleware.BearerAuth(cfg.JWT))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "video-pipeline-service",
			"timestamp": time.Now().Unix(),
		})
	})

	logger.Infof("Registering routes...")
	manager.MustInitControllers(engine, deps)
	logger.Infof("Routes registered")

	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()
	if err := task.StartAll(taskCtx); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}

	serviceRegistry := maybeRegisterService(cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started address=%s health_url=http://%s/health api_url=http://%s/api/v1", addr, addr, addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("service deregister failed error=%s", err.Error())
		}
	}

	task.StopAll()
	manager.StopComponents()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to close error=%v", err)
	}

	logger.Infof("Server exited safely")
}

// mustCheckMediaBinaries fails startup when ffmpeg or ffprobe is missing
// so a misconfigured host does not accept jobs it cannot process.
func mustCheckMediaBinaries(cfg *config.Config) {
	ffmpegBin := strings.TrimSpace(cfg.Processing.FFmpeg.BinaryPath)
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set processing.ffmpeg.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}

	probeBin := strings.TrimSpace(cfg.Processing.FFmpeg.ProbeBinaryPath)
	if probeBin == "" {
		probeBin = "ffprobe"
	}
	if _, err := exec.LookPath(probeBin); err != nil {
		logger.Fatal(fmt.Sprintf("ffprobe binary not found, please install or set processing.ffmpeg.probe_binary_path binary=%s error=%s", probeBin, err.Error()))
	}
}

// maybeRegisterService publishes this instance into etcd when enabled.
func maybeRegisterService(cfg *config.Config) *registry.ServiceRegistry {
	if !cfg.ServiceRegistry.Enabled {
		return nil
	}

	host := cfg.ServiceRegistry.RegisterHost
	if host == "" {
		host = cfg.Server.Host
	}
	serviceAddr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)

	reg, err := registry.NewServiceRegistry(
		registry.RegistryConfig{
			Endpoints:   cfg.ServiceRegistry.Endpoints,
			DialTimeout: 5 * time.Second,
		},
		registry.ServiceConfig{
			ServiceName: cfg.ServiceRegistry.ServiceName,
			ServiceID:   cfg.ServiceRegistry.ServiceID,
			TTL:         cfg.ServiceRegistry.TTL,
		},
		serviceAddr,
	)
	if err != nil {
		logger.Warnf("service registry unavailable error=%s", err.Error())
		return nil
	}
	if err := reg.Register(); err != nil {
		logger.Warnf("service register failed error=%s", err.Error())
		return nil
	}
	logger.Infof("service registered name=%s id=%s addr=%s", cfg.ServiceRegistry.ServiceName, cfg.ServiceRegistry.ServiceID, serviceAddr)
	return reg
}

// resolveConfigPath picks the config file, honoring CONFIG_PATH and
// CONFIG_ENV overrides.
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
