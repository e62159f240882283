package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"querydesk.app/engine/common/id"
	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/common/otel"
	"querydesk.app/engine/core/config"
	"querydesk.app/engine/core/db"
	"querydesk.app/engine/internal/queue"
	"querydesk.app/engine/internal/service"
	"querydesk.app/engine/internal/store"
	"querydesk.app/engine/internal/worker"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "querydesk worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Events.Group,
		"consumer_name", cfg.Events.Consumer)

	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

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

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Events.Stream,
		Group:        cfg.Events.Group,
		Consumer:     cfg.Events.Consumer,
		DLQStream:    cfg.Events.DLQStream,
		BatchSize:    20,
		Block:        5 * time.Second,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Queries())
	reports := service.NewReportService(stores.Threads(), stores.Reports(), service.NewRetryingTxRunner(database))

	w := worker.New(consumer, worker.NewReportProcessor(reports), worker.Config{
		MaxAttempts: cfg.Events.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:      cfg.Events.Stream,
		Group:       cfg.Events.Group,
		Consumer:    cfg.Events.Consumer + "-reclaimer",
		MinIdle:     5 * time.Minute,
		Interval:    time.Minute,
		BatchSize:   10,
		MaxAttempts: cfg.Events.MaxAttempts,
	}, consumer, w.ProcessMessage)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		reclaimer.Run(gctx)
		return nil
	})

	slog.InfoContext(ctx, "worker initialized and running")

	if err := g.Wait(); err != nil && runCtx.Err() == nil {
		slog.ErrorContext(ctx, "worker stopped with error", "error", err)
	}

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
  __ _ _   _  ___ _ __ _   _  __| | ___  ___| | __
 / _' | | | |/ _ \ '__| | | |/ _' |/ _ \/ __| |/ /
| (_| | |_| |  __/ |  | |_| | (_| |  __/\__ \   <
 \__, |\__,_|\___|_|   \__, |\__,_|\___||___/_|\_\
    |_|                |___/            worker
`
