package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and workers attach the identifiers they know about once, and every log line
// written further down the call chain carries them.
type LogFields struct {
	GroupID   *string // Query group ID
	ItemID    *string // Query item ID
	AppNumber *string // Loan application number
	Team      *string // Acting team (sales, credit, operations)
	Actor     *string // Person submitting the request
	RequestID *string // HTTP request ID or client idempotency key
	MessageID *string // Redis stream message ID
	EventType *string // Query event type (e.g., "item_transitioned")
	Component string  // Component name, e.g. "querydesk.service.action"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.GroupID != nil {
		result.GroupID = next.GroupID
	}
	if next.ItemID != nil {
		result.ItemID = next.ItemID
	}
	if next.AppNumber != nil {
		result.AppNumber = next.AppNumber
	}
	if next.Team != nil {
		result.Team = next.Team
	}
	if next.Actor != nil {
		result.Actor = next.Actor
	}
	if next.RequestID != nil {
		result.RequestID = next.RequestID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.EventType != nil {
		result.EventType = next.EventType
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ItemID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
// Used for message bodies and remarks, which can be long.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
