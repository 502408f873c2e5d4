package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	intDatabase "hackcall-backend/internal/database"
	callHandler "hackcall-backend/internal/handler/http/call"
	healthHandler "hackcall-backend/internal/handler/http/health"
	"hackcall-backend/internal/middleware"
	"hackcall-backend/internal/repository"
	"hackcall-backend/internal/repository/memory"
	redisRepo "hackcall-backend/internal/repository/redis"
	sqliteRepo "hackcall-backend/internal/repository/sqlite"
	callService "hackcall-backend/internal/service/call"
	"hackcall-backend/pkg/config"
	"hackcall-backend/pkg/constants"
	pkgDatabase "hackcall-backend/pkg/database"
	"hackcall-backend/pkg/env"
	"hackcall-backend/pkg/logger"
	"hackcall-backend/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	if err := env.LoadDotEnv(); err != nil {
		log.Printf("Warning: failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup logging
	if err := logger.Init(&logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 3. Initialize Metrics
	appMetrics := metrics.NewMetrics(cfg.Server.ServiceName)

	// 4. Open the keyed store for call records
	store, closeStore, err := openStore(ctx, cfg, appMetrics)
	if err != nil {
		logger.Fatal("Failed to open call store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()
	logger.Info("Call store ready", zap.String("backend", cfg.Store.Backend))

	// 5. Initialize Call Service and Handlers
	callSvc := callService.NewService(store,
		callService.WithMetrics(appMetrics),
		callService.WithStrictStart(cfg.Call.StrictStart),
	)
	callHdlr := callHandler.NewHandler(callSvc)

	// 6. Setup Gin Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Warn("Failed to configure trusted proxies", zap.Error(err))
	}

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.NewPrometheusMiddleware(appMetrics).Handler())

	healthHandler.NewHandler(cfg.Server.ServiceName, cfg.Store.Backend, store).RegisterRoutes(router)
	router.GET("/metrics", middleware.MetricsHandler(appMetrics))

	v1 := router.Group("/v1")
	v1.Use(middleware.RequestTimeout(constants.StoreOperationTimeout))
	callHdlr.RegisterRoutes(v1)

	// 7. Start server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Call service starting", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down call service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// callStore is a keyed store that can also report its reachability
type callStore interface {
	repository.KeyValueStore
	repository.Pinger
}

// openStore builds the configured keyed store and returns its cleanup function
func openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (callStore, func(), error) {
	switch cfg.Store.Backend {
	case constants.StoreBackendRedis:
		redisDB, err := intDatabase.NewRedisDB(&intDatabase.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		}, m.GetRegistry())
		if err != nil {
			return nil, nil, err
		}
		if err := redisDB.HealthCheck(ctx); err != nil {
			logger.Warn("Redis unavailable at startup, running degraded", zap.Error(err))
		}
		redisDB.StartHealthCheck(ctx, constants.RedisHealthCheckInterval)
		return redisRepo.NewKVStore(redisDB), redisDB.Close, nil

	case constants.StoreBackendSQLite:
		db, err := pkgDatabase.NewSQLiteDB(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqliteRepo.NewKVStore(ctx, db.DB)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	default:
		if cfg.IsProduction() {
			logger.Warn("In-memory call store in production: call state is lost on restart")
		}
		return memory.NewKVStore(), func() {}, nil
	}
}
