package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/internal/metrics"
	"querydesk.app/engine/internal/queue"
)

type RedisReclaimerConfig struct {
	Stream      string
	Group       string
	Consumer    string
	MinIdle     time.Duration
	Interval    time.Duration
	BatchSize   int64
	MaxAttempts int
}

// RedisReclaimer periodically claims events left pending by a worker that
// died between XREADGROUP and XACK, and runs them through the processor again.
type RedisReclaimer struct {
	client    *redis.Client
	cfg       RedisReclaimerConfig
	consumer  Consumer
	processor queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewRedisReclaimer(client *redis.Client, cfg RedisReclaimerConfig, consumer Consumer, processor queue.MessageProcessor) *RedisReclaimer {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &RedisReclaimer{
		client:    client,
		cfg:       cfg,
		consumer:  consumer,
		processor: processor,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run blocks until ctx is done or Stop is called.
func (r *RedisReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "querydesk.worker.reclaimer",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started",
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle,
		"stream", r.cfg.Stream,
		"group", r.cfg.Group)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.C:
			if err := r.reclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reclaim cycle error", "error", err)
			}
		}
	}
}

func (r *RedisReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

func (r *RedisReclaimer) reclaimOnce(ctx context.Context) error {
	pending, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: r.cfg.Stream,
		Group:  r.cfg.Group,
		Idle:   r.cfg.MinIdle,
		Start:  "-",
		End:    "+",
		Count:  r.cfg.BatchSize,
	}).Result()
	if err != nil {
		return fmt.Errorf("xpending: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "found stale pending messages", "count", len(pending))

	for _, p := range pending {
		if err := r.reclaimMessage(ctx, p); err != nil {
			slog.ErrorContext(ctx, "failed to reclaim message",
				"error", err,
				"message_id", p.ID,
				"original_consumer", p.Consumer,
				"idle_time", p.Idle)
		}
	}

	return nil
}

func (r *RedisReclaimer) reclaimMessage(ctx context.Context, pending redis.XPendingExt) error {
	msgID := pending.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID: &msgID,
	})

	slog.InfoContext(ctx, "reclaiming stale message",
		"original_consumer", pending.Consumer,
		"idle_time", pending.Idle,
		"retry_count", pending.RetryCount)

	messages, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   r.cfg.Stream,
		Group:    r.cfg.Group,
		Consumer: r.cfg.Consumer,
		MinIdle:  r.cfg.MinIdle,
		Messages: []string{pending.ID},
	}).Result()
	if err != nil {
		return fmt.Errorf("xclaim: %w", err)
	}

	if len(messages) == 0 {
		slog.DebugContext(ctx, "message already reclaimed by another worker")
		return nil
	}

	msg := messages[0]

	parsed, err := queue.ParseMessage(msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse reclaimed message, acknowledging to prevent loop",
			"error", err)
		_ = r.consumer.Ack(ctx, queue.Message{ID: msg.ID, Raw: msg})
		metrics.EventsReclaimed.WithLabelValues(metrics.ResultFailed).Inc()
		return nil
	}

	// An event that keeps killing its consumer never gets to report an error,
	// so the delivery count is the only signal that it is poison.
	if pending.RetryCount > int64(r.cfg.MaxAttempts) {
		metrics.EventsReclaimed.WithLabelValues(metrics.ResultDeadLetter).Inc()
		return r.consumer.SendDLQ(ctx, parsed, fmt.Sprintf("delivered %d times without acknowledgement", pending.RetryCount))
	}

	slog.DebugContext(ctx, "message claimed", "event_type", parsed.Event.EventType, "attempt", parsed.Attempt)

	start := time.Now()
	if err := r.processor(ctx, parsed); err != nil {
		metrics.EventsReclaimed.WithLabelValues(metrics.ResultFailed).Inc()
		if parsed.Attempt >= r.cfg.MaxAttempts {
			_ = r.consumer.SendDLQ(ctx, parsed, err.Error())
		} else {
			_ = r.consumer.Requeue(ctx, parsed, err.Error())
		}
		return fmt.Errorf("processing reclaimed message: %w", err)
	}

	metrics.EventsReclaimed.WithLabelValues(metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "reclaimed message processed",
		"event_type", parsed.Event.EventType,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
