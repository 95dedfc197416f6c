package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError represents a structured protocol error. The JSON body shape
// ({"errorCode", "message"}) is the single error contract the gateway
// exposes to sharing clients, independent of the Go error that produced it.
type AppError struct {
	Code       string `json:"errorCode"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"` // Internal error for logging, not exposed to client
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Error constructors, one per protocol error code.

func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       "PERMISSION_DENIED",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "RESOURCE_DOES_NOT_EXIST",
		Message:    fmt.Sprintf("%s does not exist", resource),
		StatusCode: http.StatusNotFound,
	}
}

func InvalidParameter(message string) *AppError {
	return &AppError{
		Code:       "INVALID_PARAMETER_VALUE",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{
		Code:       "TEMPORARILY_UNAVAILABLE",
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Internal:   err,
	}
}

// WithInternal adds an internal error for logging
func (e *AppError) WithInternal(err error) *AppError {
	e.Internal = err
	return e
}

// Response sends the error as a JSON response
func (e *AppError) Response(c *gin.Context) {
	// Log internal errors for debugging
	if e.Internal != nil {
		c.Error(e.Internal) // Gin will log this
	}

	c.JSON(e.StatusCode, gin.H{
		"errorCode": e.Code,
		"message":   e.Message,
	})
}

// ErrorHandler is a middleware that handles panics and converts them to proper error responses
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Convert panic to internal error
				appErr := Internal("An unexpected error occurred", fmt.Errorf("%v", err))
				appErr.Response(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Helper to respond with AppError or fallback to generic error
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		appErr.Response(c)
	} else {
		Internal("An error occurred", err).Response(c)
	}
}
