package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Validation errors (1xxx)
	ErrCodeInvalidArgument   ErrorCode = "GBQ1001"
	ErrCodeRequiredField     ErrorCode = "GBQ1002"
	ErrCodeUnescapedLiteral  ErrorCode = "GBQ1003"
	ErrCodeInvalidIdentifier ErrorCode = "GBQ1004"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "GBQ2001"
	ErrCodeConfigInvalid  ErrorCode = "GBQ2002"

	// Workflow registry errors (3xxx)
	ErrCodeDuplicateTask     ErrorCode = "GBQ3001"
	ErrCodeUnknownDependency ErrorCode = "GBQ3002"
	ErrCodeDependencyCycle   ErrorCode = "GBQ3003"
	ErrCodeTaskNotFound      ErrorCode = "GBQ3004"

	// Connection errors (4xxx)
	ErrCodeConnectionNotFound ErrorCode = "GBQ4001"
	ErrCodeCredentialsMissing ErrorCode = "GBQ4002"
	ErrCodeKeyringUnavailable ErrorCode = "GBQ4003"

	// Query execution errors (5xxx)
	ErrCodeQueryFailed        ErrorCode = "GBQ5001"
	ErrCodeJobTimeout         ErrorCode = "GBQ5002"
	ErrCodeRateLimited        ErrorCode = "GBQ5003"
	ErrCodeBackendUnavailable ErrorCode = "GBQ5004"

	// System errors (9xxx)
	ErrCodeInternal          ErrorCode = "GBQ9001"
	ErrCodeTimeout           ErrorCode = "GBQ9002"
	ErrCodeResourceExhausted ErrorCode = "GBQ9003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// InvalidArgument creates a build-time validation error for a named field
func InvalidArgument(field string, reason string) *AppError {
	return New(ErrCodeInvalidArgument, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field)
}

// UnescapedLiteral flags a value that would break SQL literal quoting
func UnescapedLiteral(field string, value string) *AppError {
	return New(ErrCodeUnescapedLiteral,
		fmt.Sprintf("%s contains characters that would break SQL quoting", field)).
		WithContext("field", field).
		WithContext("value", value).
		WithSuggestions(
			"Remove single quotes, backslashes and backticks from the value",
			"Values are rendered as BigQuery standard SQL string literals",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'bqmerge setup' to reconfigure",
		)
}

// QueryError creates a query execution error
func QueryError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeQueryFailed, message).
		WithContext("query", truncateString(query, 200))

	if cause != nil {
		msg := cause.Error()
		if strings.Contains(msg, "rateLimitExceeded") || strings.Contains(msg, "quotaExceeded") {
			err.Code = ErrCodeRateLimited
			err.Recoverable = true
		} else if strings.Contains(msg, "backendError") || strings.Contains(msg, "internalError") {
			err.Code = ErrCodeBackendUnavailable
			err.Recoverable = true
		}
	}

	return err
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
