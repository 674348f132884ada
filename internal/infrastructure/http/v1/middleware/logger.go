package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// Logger emits one structured line per request after the handler
// chain finishes, so the status and any collected errors are final.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []any{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if query != "" {
			fields = append(fields, "query", query)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		log.WithContext(c.Request.Context()).Infow("http request", fields...)
	}
}
