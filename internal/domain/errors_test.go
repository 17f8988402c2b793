package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypes(t *testing.T) {
	cause := errors.New("underlying")

	tests := []struct {
		name string
		err  error
		typ  ErrorType
	}{
		{"validation", ValidationError("bad input", nil), ErrTypeValidation},
		{"conversion", ConversionError("pdfimages failed", cause), ErrTypeConversion},
		{"api", APIError("endpoint down", cause), ErrTypeAPI},
		{"io", IOError("temp file", cause), ErrTypeIO},
		{"config", ConfigError("missing key", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, TypeOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ConversionError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "wrapper")
	assert.Contains(t, err.Error(), "root cause")
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ValidationError("nope", nil)))
	assert.False(t, IsValidation(ConversionError("nope", nil)))
	assert.False(t, IsValidation(errors.New("plain")))

	// Wrapped domain errors are still recognized.
	wrapped := fmt.Errorf("context: %w", ValidationError("inner", nil))
	assert.True(t, IsValidation(wrapped))
}

func TestTypeOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}
