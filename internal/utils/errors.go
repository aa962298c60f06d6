// Package utils provides logging, text normalization and structured error
// utilities shared across the parser.
package utils

import (
	"fmt"
	"time"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode represents predefined error codes for categorization
type ErrorCode string

const (
	// Document and segmentation errors
	ErrCodeInvalidDocument    ErrorCode = "INVALID_DOCUMENT"
	ErrCodeSegmentationFailed ErrorCode = "SEGMENTATION_FAILED"
	ErrCodeParsingError       ErrorCode = "PARSING_ERROR"

	// Configuration related errors
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"
	ErrCodeConfigSyntax  ErrorCode = "CONFIG_SYNTAX"

	// Output related errors
	ErrCodeOutputFailed   ErrorCode = "OUTPUT_FAILED"
	ErrCodeFilePermission ErrorCode = "FILE_PERMISSION"

	// Run control
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"

	// Generic errors
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// StructuredError provides rich error information for better debugging and handling
type StructuredError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Severity  ErrorSeverity          `json:"severity"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error unwrapping
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error code
func (e *StructuredError) Is(target error) bool {
	if se, ok := target.(*StructuredError); ok {
		return e.Code == se.Code
	}
	return false
}

// WithContext adds contextual information to the error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewStructuredError creates a structured error at Error severity.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Timestamp: time.Now(),
	}
}

// WrapError wraps an existing error with a code and message.
func WrapError(code ErrorCode, message string, cause error) *StructuredError {
	e := NewStructuredError(code, message)
	e.Cause = cause
	return e
}

// WithSeverity overrides the default severity.
func (e *StructuredError) WithSeverity(severity ErrorSeverity) *StructuredError {
	e.Severity = severity
	return e
}
