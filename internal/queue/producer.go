package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"querydesk.app/engine/internal/metrics"
)

type Producer interface {
	Publish(ctx context.Context, event QueryEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event QueryEvent) error {
	attempt := event.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"event_type": string(event.EventType),
		"group_id":   event.GroupID,
		"attempt":    attempt,
	}
	if event.ItemID != "" {
		fields["item_id"] = event.ItemID
	}
	if event.EntryID != nil {
		fields["entry_id"] = *event.EntryID
	}
	if event.Action != "" {
		fields["action"] = event.Action
	}
	if event.Team != "" {
		fields["team"] = event.Team
	}
	if event.TraceID != nil && *event.TraceID != "" {
		fields["trace_id"] = *event.TraceID
	}
	if event.SpanID != nil && *event.SpanID != "" {
		fields["span_id"] = *event.SpanID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		metrics.EventsPublished.WithLabelValues(string(event.EventType), metrics.ResultFailed).Inc()
		return fmt.Errorf("publish event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(string(event.EventType), metrics.ResultOK).Inc()
	p.logger.DebugContext(ctx, "published query event", "event_type", event.EventType, "group_id", event.GroupID, "item_id", event.ItemID, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
