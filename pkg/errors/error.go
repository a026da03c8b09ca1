// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration and periods
//   - Data/Resource errors (200-299): Missing cache files, empty results
//   - Indicator errors (300-399): Technical indicator calculation errors
//   - Market data errors (700-799): Transport, schema and provider chain failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeNotFound, "cache file not found: %s", path)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeNetwork, "request failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeSchema) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// NewSchemaError reports the required fields that a record set is missing.
func NewSchemaError(kind string, missing []string) *Error {
	return Newf(ErrCodeSchema, "%s data is missing required fields: %s", kind, strings.Join(missing, ", "))
}

// IsSchemaError reports whether err is a normalization failure.
func IsSchemaError(err error) bool {
	return HasCode(err, ErrCodeSchema)
}

// IsNotFound reports whether err is a missing local cache file.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return HasCode(err, ErrCodeNetwork)
}

// IsEmptyResult reports whether err is a source that returned zero rows.
func IsEmptyResult(err error) bool {
	return HasCode(err, ErrCodeEmptyResult)
}

// ChainExhaustedError is returned when every provider of a chain failed.
// Errors holds one message per provider, in provider order.
type ChainExhaustedError struct {
	Label  string
	Errors []string
	Causes []error
}

// NewChainExhaustedError creates a new ChainExhaustedError.
func NewChainExhaustedError(label string, messages []string, causes []error) *ChainExhaustedError {
	return &ChainExhaustedError{
		Label:  label,
		Errors: messages,
		Causes: causes,
	}
}

// Error implements the error interface.
func (e *ChainExhaustedError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s failed: no data returned", e.Label)
	}

	return fmt.Sprintf("%s failed: %s", e.Label, strings.Join(e.Errors, "; "))
}

// Unwrap exposes the individual provider failures to errors.Is and errors.As.
func (e *ChainExhaustedError) Unwrap() []error {
	return e.Causes
}

// Code returns ErrCodeChainExhausted.
func (e *ChainExhaustedError) Code() ErrorCode {
	return ErrCodeChainExhausted
}

// IsChainExhausted checks if an error is a ChainExhaustedError.
// It uses errors.As to check the error chain.
func IsChainExhausted(err error) bool {
	var chainErr *ChainExhaustedError

	return errors.As(err, &chainErr)
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation (e.g., a series shorter than the requested lookback).
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
