package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace attaches trace and request IDs to the request context.
// Incoming header values are honoured so IDs survive across service
// hops; missing ones are generated. Both IDs are echoed back in the
// response headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := appctx.NewTraceContext(
			c.GetHeader(HeaderTraceID),
			c.GetHeader(HeaderRequestID),
		)

		ctx := appctx.WithTrace(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)

		// Mirrored into the gin context for middleware that runs
		// before the request context is available, like Recovery.
		c.Set("trace_id", tc.TraceID)
		c.Set("request_id", tc.RequestID)

		c.Header(HeaderTraceID, tc.TraceID)
		c.Header(HeaderRequestID, tc.RequestID)

		c.Next()
	}
}
