package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/common/otel"
	"querydesk.app/engine/core/config"
	"querydesk.app/engine/core/db"
	"querydesk.app/engine/internal/http/middleware"
	httprouter "querydesk.app/engine/internal/http/router"
	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/service"
	"querydesk.app/engine/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "querydesk starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.AutoMigrate {
		version, err := database.Migrate(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "migrations applied", "version", version)
	}

	redisOpts, err := redis.ParseURL(cfg.Events.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Events.Stream)

	eventProducer := queue.NewRedisProducer(redisClient, cfg.Events.Stream, nil)
	defer eventProducer.Close()

	stores := store.NewStores(database.Queries())
	roster := service.NewCachedRoster(redisClient, stores.Personnel(), cfg.Roster.CacheKey, cfg.Roster.CacheTTL)
	services := service.NewServices(stores, service.NewTxRunner(database), roster, eventProducer, cfg.StoreTimeout)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID(cfg.Events.TraceHeaderName))
	router.Use(middleware.Logger())
	if cfg.Metrics {
		router.Use(middleware.Metrics())
	}

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		ListPollInterval:   cfg.Sync.ListInterval,
		ThreadPollInterval: cfg.Sync.ThreadInterval,
		MetricsEnabled:     cfg.Metrics,
	})

	return router
}

const banner = `
  __ _ _   _  ___ _ __ _   _  __| | ___  ___| | __
 / _' | | | |/ _ \ '__| | | |/ _' |/ _ \/ __| |/ /
| (_| | |_| |  __/ |  | |_| | (_| |  __/\__ \   <
 \__, |\__,_|\___|_|   \__, |\__,_|\___||___/_|\_\
    |_|                |___/            server
`
