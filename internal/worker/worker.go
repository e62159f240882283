package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/internal/metrics"
	"querydesk.app/engine/internal/queue"
)

type Config struct {
	MaxAttempts  int
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer  Consumer
	processor EventProcessor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, processor EventProcessor, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "querydesk.worker",
	})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"item_id", msg.Event.ItemID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage handles and acknowledges one message. The reclaimer reuses it.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	msgID := msg.ID
	eventType := string(msg.Event.EventType)
	fields := logger.LogFields{MessageID: &msgID, EventType: &eventType}
	if msg.Event.GroupID != "" {
		fields.GroupID = &msg.Event.GroupID
	}
	if msg.Event.ItemID != "" {
		fields.ItemID = &msg.Event.ItemID
	}
	ctx = logger.WithLogFields(ctx, fields)

	span := logger.StartSpanFromRemote(ctx, msg.TraceID, msg.SpanID, "worker.process_event")
	defer span.End()
	ctx = span.Context()

	slog.DebugContext(ctx, "processing message", "attempt", msg.Attempt)

	if err := w.processor.Handle(ctx, msg.Event); err != nil {
		span.RecordError(err)
		metrics.WorkerEvents.WithLabelValues(eventType, metrics.ResultFailed).Inc()
		return err
	}
	metrics.WorkerEvents.WithLabelValues(eventType, metrics.ResultOK).Inc()

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Redelivery is harmless: entries are counted once.
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err)
	}
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"attempts", msg.Attempt)
		metrics.WorkerEvents.WithLabelValues(string(msg.Event.EventType), metrics.ResultDeadLetter).Inc()
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
