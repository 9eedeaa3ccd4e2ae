package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/omnisaude/saude-api/pkg/errors"
	"github.com/omnisaude/saude-api/pkg/httputil"
)

// ErrorHandler converts errors attached to the gin context into a
// standard JSON response. Handlers that already wrote a body are left
// alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if stderrors.As(lastErr, &appErr) {
			status := httputil.StatusForCode(appErr.Code)
			c.JSON(status, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: status, Message: appErr.Message},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, httputil.Response{
			Success: false,
			Error:   &httputil.Error{Code: http.StatusInternalServerError, Message: "internal server error"},
		})
	}
}
