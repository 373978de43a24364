package errors

import "fmt"

// ErrorCode represents a prompt-builder error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrProtected      ErrorCode = "PROTECTED"       // 403 (built-in profiles)
	ErrStorage        ErrorCode = "STORAGE_FAILURE" // 503
	ErrUnavailable    ErrorCode = "UNAVAILABLE"     // 503 (network, no cached fallback)
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// BuilderError represents a structured error with code, status, and details.
type BuilderError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BuilderError {
	return &BuilderError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record or profile.
func NewNotFound(identifier string) *BuilderError {
	return &BuilderError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewProtected creates a 403 error for operations refused on built-in profiles.
func NewProtected(id string) *BuilderError {
	return &BuilderError{
		Code:    ErrProtected,
		Status:  403,
		Message: fmt.Sprintf("built-in profile %q cannot be deleted", id),
		Details: map[string]any{"id": id},
	}
}

// NewStorage creates a 503 error for local storage I/O failures.
func NewStorage(err error) *BuilderError {
	msg := "storage failure"
	if err != nil {
		msg = err.Error()
	}
	return &BuilderError{
		Code:    ErrStorage,
		Status:  503,
		Message: msg,
	}
}

// NewUnavailable creates a 503 error for failed outbound calls with no cached fallback.
func NewUnavailable(msg string) *BuilderError {
	return &BuilderError{
		Code:    ErrUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *BuilderError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BuilderError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a BuilderError with the given code.
func Is(err error, code ErrorCode) bool {
	if bErr, ok := err.(*BuilderError); ok {
		return bErr.Code == code
	}
	return false
}
