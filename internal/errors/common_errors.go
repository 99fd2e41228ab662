package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the pipeline step an error belongs to
type ErrorType string

const (
	ErrTypeLoad      ErrorType = "LOAD"
	ErrTypeClean     ErrorType = "CLEAN"
	ErrTypeAggregate ErrorType = "AGGREGATE"
	ErrTypeSentinel  ErrorType = "SENTINEL"
	ErrTypeExport    ErrorType = "EXPORT"
	ErrTypeConfig    ErrorType = "CONFIG"
	ErrTypeSource    ErrorType = "SOURCE"
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

// NewLoadError creates an error for a workbook that could not be read
func NewLoadError(file string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, fmt.Sprintf("load %s", file), cause).WithContext("file", file)
}

// NewCleanError creates an error for a workbook that could not be cleaned
func NewCleanError(file string, cause error) *AppError {
	return NewAppError(ErrTypeClean, fmt.Sprintf("clean %s", file), cause).WithContext("file", file)
}

// NewAggregateError creates an error for a failed concatenation
func NewAggregateError(message string, cause error) *AppError {
	return NewAppError(ErrTypeAggregate, message, cause)
}

// NewSentinelError creates an error for a failed sentinel scan or replacement
func NewSentinelError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSentinel, message, cause)
}

// NewExportError creates an export error
func NewExportError(format string, cause error) *AppError {
	return NewAppError(ErrTypeExport, fmt.Sprintf("export %s", format), cause).WithContext("format", format)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewSourceError creates an error for a file source that could not be listed or opened
func NewSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSource, message, cause)
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// FromPanic converts a recovered panic value into an error
func FromPanic(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}
