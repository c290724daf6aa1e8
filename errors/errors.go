package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// AsAppError extracts an *AppError from err's chain, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether err is a retryable AppError.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// --- Common Error Constructors ---

// NoWordTimestamps creates a new AppError for a transcript without time-aligned words.
func NoWordTimestamps() *AppError {
	return &AppError{
		Code: ErrCodeNoWordTimestamps, Message: "The transcript contains no time-aligned words.",
		Retryable: false,
	}
}

// AudioUnreadable creates a new AppError for an unreadable or undecodable recording.
func AudioUnreadable(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeAudioUnreadable, Message: "The call recording could not be read.",
		Retryable: false, Cause: cause,
		Details: map[string]any{"path": path},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// ProviderUnavailable creates a new AppError for an unreachable STT provider.
func ProviderUnavailable(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnavailable, Message: fmt.Sprintf("The %s provider is unavailable.", provider),
		Retryable: true, Cause: cause,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderResponse creates a new AppError for an unusable provider response.
func ProviderResponse(provider, reason string) *AppError {
	return &AppError{
		Code: ErrCodeProviderResponse, Message: fmt.Sprintf("Unusable response from %s: %s", provider, reason),
		Retryable: false,
		Details:   map[string]any{"provider": provider},
	}
}

// InsufficientSpeakers creates a new AppError for provider diarization that found
// fewer than two distinct speakers.
func InsufficientSpeakers(found int) *AppError {
	return &AppError{
		Code: ErrCodeInsufficientSpeakers, Message: fmt.Sprintf("Provider diarization found %d speaker(s), need 2.", found),
		Retryable: false,
		Details:   map[string]any{"speakers": found},
	}
}

// SeparationFailed creates a new AppError for a failed source-separation attempt.
func SeparationFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSeparationFailed, Message: "Source separation did not produce a stereo signal.",
		Retryable: false, Cause: cause,
	}
}

// Timeout creates a new AppError for a collaborator call that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}
