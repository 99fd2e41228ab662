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
		errType  ErrorType
		expected string
	}{
		{ErrTypeLoad, "LOAD"},
		{ErrTypeClean, "CLEAN"},
		{ErrTypeAggregate, "AGGREGATE"},
		{ErrTypeSentinel, "SENTINEL"},
		{ErrTypeExport, "EXPORT"},
		{ErrTypeConfig, "CONFIG"},
		{ErrTypeSource, "SOURCE"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
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
			appError:    NewAggregateError("no tables to concatenate", nil),
			wantMessage: "[AGGREGATE] no tables to concatenate",
		},
		{
			name:        "error with cause",
			appError:    NewLoadError("hiveA.xlsx", fmt.Errorf("zip: not a valid zip file")),
			wantMessage: "[LOAD] load hiveA.xlsx: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("column not found")
	err := fmt.Errorf("process: %w", NewCleanError("hiveB.xlsx", cause))

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeClean, appErr.Type)
	assert.Equal(t, "hiveB.xlsx", appErr.Context["file"])
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewExportError("csv", errors.New("disk full")))

	assert.True(t, IsType(err, ErrTypeExport))
	assert.False(t, IsType(err, ErrTypeLoad))
	assert.False(t, IsType(errors.New("plain"), ErrTypeExport))
}

func TestWithContextOnNilMap(t *testing.T) {
	e := &AppError{Type: ErrTypeConfig, Message: "bad"}
	e.WithContext("key", "source.max_files")
	assert.Equal(t, "source.max_files", e.Context["key"])
}

func TestFromPanic(t *testing.T) {
	base := errors.New("index out of range")
	assert.ErrorIs(t, FromPanic(base), base)
	assert.EqualError(t, FromPanic("boom"), "panic: boom")
}
