// Package middleware provides the HTTP middleware chain: panic
// recovery, trace propagation, request logging, auth, and error
// rendering.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// Recovery converts panics into a plain 500. The stack goes to the
// log, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"panic", r,
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", r))
			_ = c.Error(appErr)
			c.Abort()
		}()

		c.Next()
	}
}
