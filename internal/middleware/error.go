package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/web"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/httputil"
)

// ErrorHandler answers requests that ended with c.Error and wrote nothing.
// JSON clients get the error envelope, browsers the error page.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only handle errors if they exist
		if len(c.Errors) == 0 {
			return
		}

		log := zerolog.Ctx(c.Request.Context())
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Interface("meta", e.Meta).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		if httputil.WantsJSON(c) {
			httputil.RespondWithError(c, lastErr)
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		var appErr *apperrors.AppError
		if apperrors.As(lastErr, &appErr) && appErr.Kind != apperrors.KindInternal {
			status = appErr.StatusCode()
			message = appErr.Message
		}
		renderError(c, status, message)
	}
}

// NotFound renders the error page for unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "Page not found")
	}
}

func renderError(c *gin.Context, status int, message string) {
	if httputil.WantsJSON(c) {
		c.AbortWithStatusJSON(status, httputil.Response{
			Error: &httputil.Error{Status: status, Message: message},
		})
		return
	}
	c.HTML(status, web.TemplateError, web.ErrorPage{
		Status:    status,
		Message:   message,
		RequestID: c.GetString(ContextRequestID),
	})
	c.Abort()
}
