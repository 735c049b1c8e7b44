package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryStore    Category = "store"
	CategoryProtocol Category = "protocol"
	CategoryRuntime  Category = "runtime"
	CategoryCLI      Category = "cli"
)

// FolioError is a structured error with a registered code.
type FolioError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance-specific explanation.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FolioError) Unwrap() error {
	return e.Wrapped
}

// Is matches another FolioError with the same code.
func (e *FolioError) Is(target error) bool {
	t, ok := target.(*FolioError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithDetail adds an instance-specific explanation.
func (e *FolioError) WithDetail(d string) *FolioError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation.
func (e *FolioError) WithDetailf(format string, args ...any) *FolioError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FolioError) WithSuggestion(s string) *FolioError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *FolioError) Wrap(err error) *FolioError {
	e.Wrapped = err
	return e
}

// LogAttrs returns slog key/value pairs describing the error.
func (e *FolioError) LogAttrs() []any {
	attrs := []any{"code", e.Code, "category", string(e.Category)}
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}
	if e.Wrapped != nil {
		attrs = append(attrs, "error", e.Wrapped)
	}
	return attrs
}

// New creates a FolioError from a registered error code.
func New(code string) *FolioError {
	template, ok := registry[code]
	if !ok {
		return &FolioError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FolioError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a FolioError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *FolioError {
	return &FolioError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a FolioError with code. An err that already is a
// FolioError is returned unchanged.
func FromError(err error, code string) *FolioError {
	if err == nil {
		return nil
	}
	var fe *FolioError
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first FolioError in err's chain, or "".
func CodeOf(err error) string {
	var fe *FolioError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
