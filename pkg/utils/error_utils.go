package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError carries everything a handler needs to emit a standardized
// error envelope: `{"success": false, "error": "...", ...}`.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	// Extra holds structured fields merged into the envelope, e.g. reference
	// counts on a blocked delete so the caller can decide to retry with cascade.
	Extra map[string]interface{} `json:"-"`
}

// NewAPIError creates a new APIError instance.
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// WithExtra attaches structured fields to the error envelope.
func (e *APIError) WithExtra(extra map[string]interface{}) *APIError {
	e.Extra = extra
	return e
}

// RespondWithError sends a standardized JSON error envelope.
func RespondWithError(c *gin.Context, err *APIError) {
	body := gin.H{
		"success": false,
		"error":   err.Message,
	}
	if err.Code != "" {
		body["code"] = err.Code
	}
	if err.Details != "" {
		body["details"] = err.Details
	}
	for k, v := range err.Extra {
		body[k] = v
	}
	c.JSON(err.StatusCode, body)
	c.Abort()
}

// RespondWithData sends a success envelope with a data payload.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{"success": true, "data": data})
}

// RespondWithList sends a success envelope with a data payload and row count.
func RespondWithList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

// RespondWithMessage sends a success envelope carrying only a message,
// used by delete endpoints.
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// Common error codes.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

// RespondValidationFailed is a shorthand for the common 400 validation envelope.
func RespondValidationFailed(c *gin.Context, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, "Input validation failed", details))
}
