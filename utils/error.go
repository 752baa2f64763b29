package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ValidationError marks malformed input, rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionFailedError marks a state conflict: the record no longer matches
// what the caller assumed. The caller must re-fetch before retrying.
type PreconditionFailedError struct {
	Message string
}

func (e *PreconditionFailedError) Error() string { return e.Message }

// NewPreconditionFailed builds a PreconditionFailedError from a format string.
func NewPreconditionFailed(format string, args ...any) error {
	return &PreconditionFailedError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NewNotFound builds a NotFoundError from a format string.
func NewNotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError maps a service error onto the right HTTP status. Precondition
// failures must reach the caller as explicit conflicts, never as generic 500s.
func RespondError(c *gin.Context, err error) {
	var ve *ValidationError
	var pe *PreconditionFailedError
	var nf *NotFoundError
	switch {
	case errors.As(err, &ve):
		JSONError(c, http.StatusBadRequest, "invalid input", ve.Message)
	case errors.As(err, &pe):
		JSONError(c, http.StatusConflict, "no longer available", pe.Message)
	case errors.As(err, &nf):
		JSONError(c, http.StatusNotFound, "not found", nf.Message)
	default:
		JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
