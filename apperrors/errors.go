package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status mapping.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation marks malformed caller input (400).
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound marks an unknown order/session (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Auth marks bad credentials or a bad token (401).
func Auth(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// InvalidState marks an operation not permitted in the current order state (400).
func InvalidState(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// PaymentProvider wraps an upstream payment API failure (502).
func PaymentProvider(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

// Signature marks a webhook signature mismatch (400).
func Signature(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// IsValidation reports whether err is a 400-class validation error.
func IsValidation(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == http.StatusBadRequest
}

// IsNotFound reports whether err is a 404 application error.
func IsNotFound(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == http.StatusNotFound
}

// Respond writes err as a structured JSON response. Non-application errors
// are masked as 500s so internals never leak to the client.
func Respond(c *gin.Context, err error) {
	if e, ok := err.(*Error); ok {
		c.JSON(e.Code, gin.H{"error": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
