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
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppError(ErrTypeValidation, "order quantity must be positive", nil),
			want: "[VALIDATION] order quantity must be positive",
		},
		{
			name: "with cause",
			err:  NewAppError(ErrTypeParsing, "bad cell", fmt.Errorf("strconv: invalid syntax")),
			want: "[PARSING] bad cell: strconv: invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewLoadFatalError("orders", cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewAppValidationError("x").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	err.WithContext("path", "/tmp/out.csv").WithContext("bytes", 10)

	require.NotNil(t, err.Context)
	assert.Equal(t, "/tmp/out.csv", err.Context["path"])
	assert.Equal(t, 10, err.Context["bytes"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCtx  map[string]interface{}
	}{
		{"load fatal", NewLoadFatalError("capacity", cause), ErrTypeLoadFatal, map[string]interface{}{"source": "capacity"}},
		{"load degraded", NewLoadDegradedError("labor", cause), ErrTypeLoadDegraded, map[string]interface{}{"source": "labor"}},
		{"parsing", NewParsingError("bad row", cause), ErrTypeParsing, map[string]interface{}{}},
		{"validation", NewAppValidationError("bad"), ErrTypeValidation, map[string]interface{}{}},
		{"lookup", NewLookupError("material", "Couché 150g"), ErrTypeLookup, map[string]interface{}{"material": "Couché 150g"}},
		{"not found", NewNotFoundError("product"), ErrTypeNotFound, map[string]interface{}{}},
		{"storage", NewStorageError("disk full", cause), ErrTypeStorage, map[string]interface{}{}},
		{"config", NewConfigError("bad port", cause), ErrTypeConfig, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCtx, tt.err.Context)
			assert.True(t, IsType(tt.err, tt.wantType))
		})
	}
}

func TestNewLookupError_Message(t *testing.T) {
	err := NewLookupError("binding", "120 sheets")
	assert.Equal(t, `[LOOKUP] binding "120 sheets" has no cost entry`, err.Error())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", NewLoadDegradedError("planning", nil))

	assert.True(t, IsType(wrapped, ErrTypeLoadDegraded))
	assert.False(t, IsType(wrapped, ErrTypeLoadFatal))
	assert.False(t, IsType(errors.New("plain"), ErrTypeLoadFatal))
	assert.False(t, IsType(nil, ErrTypeLoadFatal))
}

func TestMissingColumnError(t *testing.T) {
	var err error = fmt.Errorf("load: %w", &MissingColumnError{Source: "orders", Column: "QTD"})

	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "orders", missing.Source)
	assert.Equal(t, `source orders is missing required column "QTD"`, missing.Error())
}
