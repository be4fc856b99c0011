package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeLoadFatal aborts a pipeline: a required source is unreachable
	// or lacks a required column.
	ErrTypeLoadFatal ErrorType = "LOAD_FATAL"
	// ErrTypeLoadDegraded marks an optional source that failed; the pipeline
	// proceeds without it.
	ErrTypeLoadDegraded ErrorType = "LOAD_DEGRADED"
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeValidation   ErrorType = "VALIDATION"
	// ErrTypeLookup is a referenced material or binding with no cost entry.
	ErrTypeLookup   ErrorType = "LOOKUP"
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNotFound ErrorType = "NOT_FOUND"
	ErrTypeStorage  ErrorType = "STORAGE"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewLoadFatalError creates an error that aborts a load
func NewLoadFatalError(source string, cause error) *AppError {
	return NewAppError(ErrTypeLoadFatal, fmt.Sprintf("failed to load required source %s", source), cause).
		WithContext("source", source)
}

// NewLoadDegradedError creates a warning-grade error for an optional source
func NewLoadDegradedError(source string, cause error) *AppError {
	return NewAppError(ErrTypeLoadDegraded, fmt.Sprintf("optional source %s unavailable", source), cause).
		WithContext("source", source)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewLookupError creates a lookup-miss error
func NewLookupError(kind, key string) *AppError {
	return NewAppError(ErrTypeLookup, fmt.Sprintf("%s %q has no cost entry", kind, key), nil).
		WithContext(kind, key)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// MissingColumnError reports a source whose header lacks a required column.
type MissingColumnError struct {
	Source string
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("source %s is missing required column %q", e.Source, e.Column)
}
