package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataNotFound    ErrorType = "DATA_NOT_FOUND"
	ErrTypeEmptyGraph      ErrorType = "EMPTY_GRAPH"
	ErrTypeInvalidScenario ErrorType = "INVALID_SCENARIO"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeConfig          ErrorType = "CONFIG"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeState           ErrorType = "STATE"
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

// Helper functions for common error types

// NewDataNotFoundError signals that no records exist for a crop/year combination
func NewDataNotFoundError(crop string, year int) *AppError {
	e := NewAppError(ErrTypeDataNotFound, fmt.Sprintf("no data for crop %q in year %d", crop, year), nil)
	e.Context["crop"] = crop
	e.Context["year"] = year
	return e
}

// NewEmptyGraphError signals that no edges survive the negligible-flow filter
func NewEmptyGraphError(threshold float64) *AppError {
	e := NewAppError(ErrTypeEmptyGraph, "no trade flows above threshold, graph is empty", nil)
	e.Context["threshold"] = threshold
	return e
}

// NewInvalidScenarioError creates a scenario validation error
func NewInvalidScenarioError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInvalidScenario, message, cause)
}

// NewParsingError creates a data parsing error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewStorageError creates a file storage error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewStateError signals that a model accessor was called before the pipeline
// step producing its artifact has run
func NewStateError(message string) *AppError {
	return NewAppError(ErrTypeState, message, nil)
}

// isType reports whether err is an AppError of the given type anywhere in its chain
func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsDataNotFound reports whether err is a DATA_NOT_FOUND error
func IsDataNotFound(err error) bool { return isType(err, ErrTypeDataNotFound) }

// IsEmptyGraph reports whether err is an EMPTY_GRAPH error
func IsEmptyGraph(err error) bool { return isType(err, ErrTypeEmptyGraph) }

// IsInvalidScenario reports whether err is an INVALID_SCENARIO error
func IsInvalidScenario(err error) bool { return isType(err, ErrTypeInvalidScenario) }

// IsState reports whether err is a STATE error
func IsState(err error) bool { return isType(err, ErrTypeState) }
