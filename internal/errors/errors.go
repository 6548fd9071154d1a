// Package errors provides centralized error definitions and error handling utilities
// for nexus. It defines the sentinel errors raised while validating a region code
// and talking to the lookup service, semantic error types carrying context, and
// classification helpers used to decide what reaches the user.
//
// # Error Types
//
//   - ValidationError: malformed input, detected locally before any network call
//   - LookupError: a failed round-trip to the lookup service (rate limit,
//     non-success status, unreachable host, malformed payload)
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewValidationError("region code must be two letters").
//		WithField("estado").WithValue(raw)
//
//	err := errors.NewLookupError("SP", errors.ErrRateLimited).WithStatus(429)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrRateLimited) { ... }
//
//	var lookupErr *errors.LookupError
//	if errors.As(err, &lookupErr) { ... }
//
// # Error Classification
//
//   - Retryable: the same request may succeed later (rate limit, network)
//   - UserFacing: the message is safe to display as is
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Lookup-related sentinel errors
var (
	// ErrInvalidRegionCode indicates that the input is not two uppercase letters.
	ErrInvalidRegionCode = New("invalid region code")
	// ErrRateLimited indicates that the lookup service answered 429.
	ErrRateLimited = New("rate limited by lookup service")
	// ErrTransport indicates any other failed round-trip to the lookup service.
	ErrTransport = New("lookup transport failure")
	// ErrMalformedResponse indicates a success status with a body that does not
	// match the response contract. It always wraps ErrTransport.
	ErrMalformedResponse = fmt.Errorf("malformed lookup response: %w", ErrTransport)
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// NexusError is the base interface for all nexus errors.
type NexusError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed when repeated.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsRetryable() bool {
	return e.retryable
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("region code must be two letters")
//	err = err.WithField("estado").WithValue("S1")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%q", fmt.Sprint(e.Value)))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// LookupError represents a failed request to the lookup service.
// The cause is always one of ErrRateLimited, ErrTransport or
// ErrMalformedResponse, optionally joined with the underlying error.
//
// Example:
//
//	err := errors.NewLookupError("SP", errors.ErrTransport).WithStatus(500)
//	fmt.Println(err) // "lookup error [code=SP, status=500]: lookup transport failure"
type LookupError struct {
	baseError
	Code       string
	StatusCode int
}

// NewLookupError creates a new LookupError for the given region code.
// Rate limiting and plain transport failures are retryable by the user;
// a malformed payload is not.
func NewLookupError(code string, cause error) *LookupError {
	return &LookupError{
		baseError: baseError{
			message:    "lookup failed",
			cause:      cause,
			severity:   SeverityError,
			retryable:  !errors.Is(cause, ErrMalformedResponse),
			userFacing: false,
		},
		Code: code,
	}
}

// WithStatus records the HTTP status code returned by the service.
func (e *LookupError) WithStatus(status int) *LookupError {
	e.StatusCode = status
	if errors.Is(e.cause, ErrRateLimited) {
		e.severity = SeverityWarning
	}
	return e
}

// Error returns the formatted error message.
func (e *LookupError) Error() string {
	var parts []string
	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "lookup error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("lookup error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *LookupError) Is(target error) bool {
	if _, ok := target.(*LookupError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed when the user repeats the operation. nexus never retries
// on its own; this only drives wording and logging.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var nexusErr NexusError
	if As(err, &nexusErr) {
		return nexusErr.IsRetryable()
	}

	return Is(err, ErrRateLimited)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var nexusErr NexusError
	if As(err, &nexusErr) {
		return nexusErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement NexusError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var nexusErr NexusError
	if As(err, &nexusErr) {
		return nexusErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load config")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to query %s", code)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
