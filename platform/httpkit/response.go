// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInternalError = "internal server error"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses and reports whether err
// was non-nil. Typed *apperr.Error values use their Kind; anything else is a
// 500. For 5xx responses the cause is logged and only a generic message is
// returned to the caller.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		logServerError(c, http.StatusInternalServerError, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
		return true
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logServerError(c, status, err)
		message := domainErr.Message
		if message == "" {
			message = msgInternalError
		}
		c.JSON(status, ErrorResponse{Error: message})
		return true
	}

	c.JSON(status, ErrorResponse{
		Error:   domainErr.Message,
		Details: domainErr.Details,
	})
	return true
}

func logServerError(c *gin.Context, status int, err error) {
	log := LoggerFrom(c)
	if log == nil {
		return
	}
	log.HTTPError(c.Request.Method, c.Request.URL.Path, status, err, c.ClientIP())
}

// LoggerFrom returns the request-scoped logger installed by RequestLogger, or nil.
func LoggerFrom(c *gin.Context) *logger.Logger {
	value, ok := c.Get(ContextLoggerKey)
	if !ok {
		return nil
	}
	log, _ := value.(*logger.Logger)
	return log
}
