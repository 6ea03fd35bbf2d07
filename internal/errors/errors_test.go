package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewAppError(ErrTypeParsing, "bad row", nil),
			expected: "[PARSING] bad row",
		},
		{
			name:     "with cause",
			err:      NewAppError(ErrTypeStorage, "write failed", errors.New("disk full")),
			expected: "[STORAGE] write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(ErrTypeConfig, "load failed", cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrTypeConfig, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeValidation, "bad input", nil).
		WithContext("field", "quantity").
		WithContext("value", -1.0)

	assert.Equal(t, "quantity", err.Context["field"])
	assert.Equal(t, -1.0, err.Context["value"])
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		want      bool
	}{
		{"data not found", NewDataNotFoundError("Wheat", 2018), IsDataNotFound, true},
		{"wrapped data not found", fmt.Errorf("load: %w", NewDataNotFoundError("Rice", 2020)), IsDataNotFound, true},
		{"empty graph", NewEmptyGraphError(10), IsEmptyGraph, true},
		{"invalid scenario", NewInvalidScenarioError("negative factor", nil), IsInvalidScenario, true},
		{"state", NewStateError("graph not built"), IsState, true},
		{"plain error is not app error", errors.New("nope"), IsDataNotFound, false},
		{"mismatched type", NewEmptyGraphError(0), IsDataNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.predicate(tt.err))
		})
	}
}

func TestNewDataNotFoundError_Context(t *testing.T) {
	err := NewDataNotFoundError("Maize", 2018)
	assert.Equal(t, "Maize", err.Context["crop"])
	assert.Equal(t, 2018, err.Context["year"])
	assert.Contains(t, err.Error(), "Maize")
}
