// Package apperr holds the error taxonomy shared by the store, the core and the API.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds, matched with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrDuplicate           = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrMissingCredential   = errors.New("missing credential")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error carries the operation and a human message on top of a kind.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func New(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(op string, kind error, err error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Message returns the human part of an *Error, or err.Error() for anything else.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
