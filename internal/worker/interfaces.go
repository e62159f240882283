package worker

import (
	"context"

	"querydesk.app/engine/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// EventProcessor handles one query event. Returning an error requeues the message.
type EventProcessor interface {
	Handle(ctx context.Context, event queue.QueryEvent) error
}

// ReportRecorder is the part of the report service the worker needs.
type ReportRecorder interface {
	RecordEntry(ctx context.Context, entryID int64) (bool, error)
}
