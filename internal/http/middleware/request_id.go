package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"querydesk.app/engine/common/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or assigns a request id and attaches it to the log
// fields of the request context. When the request is traced, the trace id is
// echoed in traceHeader so callers can quote it.
func RequestID(traceHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: &id})
		c.Request = c.Request.WithContext(ctx)

		if traceHeader != "" {
			if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
				c.Header(traceHeader, sc.TraceID().String())
			}
		}

		c.Next()
	}
}
