package middleware

import (
	"errors"
	"net/http"

	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/pkg/apperror"
	"ocs-recruitment-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Code == http.StatusInternalServerError {
					// Log the wrapped cause server-side; the client only
					// ever sees the generic message.
					logger.Log.Error("internal failure",
						"error", appErr.Err,
						"path", c.FullPath(),
						"request_id", c.GetString("RequestID"),
					)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unhandled error",
					"error", err,
					"path", c.FullPath(),
					"request_id", c.GetString("RequestID"),
				)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
