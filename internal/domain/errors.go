package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure so callers can map it to a transport-level
// response without inspecting message text.
type ErrorType string

const (
	ErrTypeValidation ErrorType = "validation"
	ErrTypeConversion ErrorType = "conversion"
	ErrTypeAPI        ErrorType = "api"
	ErrTypeIO         ErrorType = "io"
	ErrTypeConfig     ErrorType = "config"
)

// Error is the single error implementation used across the parser.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ValidationError reports rejected input (bad extension, missing file, etc.).
func ValidationError(message string, cause error) error {
	return &Error{Type: ErrTypeValidation, Message: message, Cause: cause}
}

// ConversionError reports a failure in the converter stack (go-fitz,
// pdfimages, LibreOffice).
func ConversionError(message string, cause error) error {
	return &Error{Type: ErrTypeConversion, Message: message, Cause: cause}
}

// APIError reports a failure talking to the vision endpoint.
func APIError(message string, cause error) error {
	return &Error{Type: ErrTypeAPI, Message: message, Cause: cause}
}

// IOError reports a filesystem failure.
func IOError(message string, cause error) error {
	return &Error{Type: ErrTypeIO, Message: message, Cause: cause}
}

// ConfigError reports invalid or missing configuration.
func ConfigError(message string, cause error) error {
	return &Error{Type: ErrTypeConfig, Message: message, Cause: cause}
}

// TypeOf returns the ErrorType of err, or an empty string for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsValidation reports whether err is an input-validation rejection.
func IsValidation(err error) bool {
	return TypeOf(err) == ErrTypeValidation
}
