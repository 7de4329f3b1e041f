package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"unknown city", ErrTypeUnknownCity, "UNKNOWN_CITY"},
		{"malformed input", ErrTypeMalformedInput, "MALFORMED_INPUT"},
		{"invalid filter", ErrTypeInvalidFilter, "INVALID_FILTER"},
		{"storage", ErrTypeStorage, "STORAGE"},
		{"validation", ErrTypeValidation, "VALIDATION"},
		{"config", ErrTypeConfig, "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewAppError(ErrTypeStorage, "cannot open source", nil),
			wantMessage: "[STORAGE] cannot open source",
		},
		{
			name:        "error with cause",
			appError:    NewMalformedInputError("bad timestamp", fmt.Errorf("parse failure")),
			wantMessage: "[MALFORMED_INPUT] bad timestamp: parse failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_IsMatchesSentinelByType(t *testing.T) {
	wrapped := fmt.Errorf("load chicago: %w", NewUnknownCityError("boston"))

	assert.True(t, errors.Is(wrapped, ErrUnknownCity))
	assert.False(t, errors.Is(wrapped, ErrInvalidFilter))
	assert.False(t, errors.Is(wrapped, ErrMalformedInput))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "boston", appErr.Context["city"])
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("strconv: invalid syntax")
	err := NewMalformedInputError("bad duration", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestNewInvalidFilterError(t *testing.T) {
	err := NewInvalidFilterError("month", "july")

	assert.Equal(t, ErrTypeInvalidFilter, err.Type)
	assert.Equal(t, "month", err.Context["field"])
	assert.Equal(t, "july", err.Context["value"])
	assert.Contains(t, err.Error(), `invalid month filter "july"`)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"direct", NewConfigError("bad level", nil), ErrTypeConfig},
		{"wrapped", fmt.Errorf("outer: %w", NewInvalidFilterError("day", "funday")), ErrTypeInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestAppError_WithContextInitializesMap(t *testing.T) {
	err := &AppError{Type: ErrTypeValidation, Message: "bad"}
	err.WithContext("line", 3)

	assert.Equal(t, 3, err.Context["line"])
}
