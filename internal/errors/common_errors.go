package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeUnknownCity    ErrorType = "UNKNOWN_CITY"
	ErrTypeMalformedInput ErrorType = "MALFORMED_INPUT"
	ErrTypeInvalidFilter  ErrorType = "INVALID_FILTER"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks. An AppError matches a sentinel when their
// types are equal.
var (
	ErrUnknownCity    = &AppError{Type: ErrTypeUnknownCity, Message: "unknown city"}
	ErrMalformedInput = &AppError{Type: ErrTypeMalformedInput, Message: "malformed input"}
	ErrInvalidFilter  = &AppError{Type: ErrTypeInvalidFilter, Message: "invalid filter"}
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

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
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

// TypeOf returns the ErrorType of the first AppError in err's chain, or an
// empty type when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewUnknownCityError reports a city that is not in the registry.
func NewUnknownCityError(city string) *AppError {
	return NewAppError(ErrTypeUnknownCity, fmt.Sprintf("city %q is not registered", city), nil).
		WithContext("city", city)
}

// NewMalformedInputError reports a source row or header that cannot be parsed.
func NewMalformedInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedInput, message, cause)
}

// NewInvalidFilterError reports a month or day outside the fixed lists.
func NewInvalidFilterError(field, value string) *AppError {
	return NewAppError(ErrTypeInvalidFilter, fmt.Sprintf("invalid %s filter %q", field, value), nil).
		WithContext("field", field).
		WithContext("value", value)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
