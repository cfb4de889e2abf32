package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for assistant operations.
type ErrorCode string

const (
	// ErrCodeUnreachableBackend indicates the desktop backend is not reachable.
	ErrCodeUnreachableBackend ErrorCode = "UNREACHABLE_BACKEND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeActionFailed indicates a resolved action could not be executed.
	ErrCodeActionFailed ErrorCode = "ACTION_EXECUTION_FAILED"
	// ErrCodeUnknownAction indicates the requested action does not exist.
	ErrCodeUnknownAction ErrorCode = "UNKNOWN_ACTION"
	// ErrCodePermissionDenied indicates the OS refused a privileged operation.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeLLMUnavailable indicates no chat provider is configured or reachable.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// AssistantError represents a structured error for assistant operations.
type AssistantError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AssistantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AssistantError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AssistantError) WithContext(key string, value interface{}) *AssistantError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *AssistantError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// UnreachableBackend creates an unreachable backend error.
func UnreachableBackend(msg string, cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeUnreachableBackend, Message: msg, Cause: cause}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeInvalidArgument, Message: msg}
}

// ActionFailed creates an action execution failed error.
func ActionFailed(msg string, cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeActionFailed, Message: msg, Cause: cause}
}

// UnknownAction creates an unknown action error.
func UnknownAction(action string) *AssistantError {
	return &AssistantError{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("unknown action: %s", action),
	}
}

// PermissionDenied creates a permission denied error.
func PermissionDenied(msg string, cause error) *AssistantError {
	return &AssistantError{Code: ErrCodePermissionDenied, Message: msg, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeLLMUnavailable, Message: msg}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *AssistantError {
	return &AssistantError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if aerr, ok := err.(*AssistantError); ok {
		return aerr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AssistantError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if aerr, ok := err.(*AssistantError); ok {
		return aerr.Code
	}
	return defaultCode
}
