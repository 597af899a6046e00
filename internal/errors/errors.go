package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"

	// Validation errors
	ErrCodeMissingFields  = "MISSING_FIELDS"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNotGroupMember = "NOT_A_GROUP_MEMBER"

	// Resource errors
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
	ErrCodeTaskNotFound      = "TASK_NOT_FOUND"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response. The message is
// carried in the "error" field, which is the shape client code consumes.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// MissingFields sends a 400 response for absent required fields
func MissingFields(c *gin.Context, message string) {
	if message == "" {
		message = "Required fields are missing"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeMissingFields, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// NotGroupMember sends a 400 response for assignment of a non-member
func NotGroupMember(c *gin.Context, message string) {
	if message == "" {
		message = "User is not a member of the task's group"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeNotGroupMember, message))
}

// AuthenticationFailed sends a 401 response. Unknown-user and wrong-password
// cases must go through here with the same message.
func AuthenticationFailed(c *gin.Context) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeAuthenticationFailed, "Authentication failed"))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// TaskNotFound sends a 404 response for a missing task
func TaskNotFound(c *gin.Context) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeTaskNotFound, "Task not found"))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// DuplicateUsername sends a 409 response
func DuplicateUsername(c *gin.Context) {
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeDuplicateUsername, "Username already exists"))
}

// InternalError sends a 500 response. Callers log the underlying error;
// the response never includes internal detail.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An error occurred"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
