package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/auth-ui/pkg/errors"
)

// Response wraps all JSON responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a JSON error
type Error struct {
	Status  int               `json:"status"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WantsJSON reports whether the client prefers JSON over HTML.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	RespondWithFieldErrors(c, err, nil)
}

// RespondWithFieldErrors sends an error response listing per field messages.
func RespondWithFieldErrors(c *gin.Context, err error, fields map[string]string) {
	body := &Error{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Fields:  fields,
	}

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		body.Status = appErr.StatusCode()
		body.Code = appErr.Code
		body.Message = appErr.Message
	}

	c.JSON(body.Status, Response{
		Success: false,
		Error:   body,
	})
}
