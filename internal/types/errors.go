package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by controllers and handlers. Wrap a sentinel with a
// message so callers can match with errors.Is and still surface the text.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrStorage        = errors.New("storage error")
)

type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func NewValidationError(format string, args ...any) error {
	return &AppError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NewAuthenticationError(format string, args ...any) error {
	return &AppError{Kind: ErrAuthentication, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationError(format string, args ...any) error {
	return &AppError{Kind: ErrAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewStorageError(format string, args ...any) error {
	return &AppError{Kind: ErrStorage, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing text of an application error, or the
// fallback when err carries no AppError.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
