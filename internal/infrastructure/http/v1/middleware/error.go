package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/apperror"
	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// ErrorHandler renders collected errors as JSON after the handler
// chain runs. Handlers only call c.Error; this is the single place
// where an error becomes a response, so clients always see the same
// shape and internal causes never leak.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		// A handler that already wrote a body wins.
		if c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
				"details": map[string]any{
					"request_id": appctx.GetRequestID(c.Request.Context()),
				},
			})
			return
		}

		if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}
		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}
