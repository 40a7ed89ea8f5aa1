package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindRemote     Kind = "remote"
	KindStorage    Kind = "storage"
	KindConfig     Kind = "config"
	KindBootstrap  Kind = "bootstrap"
	KindUnknown    Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Status is the HTTP status of the upstream response, 0 when no response was received.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Validation reports a local input failure; no network call was made.
func Validation(op, message string) *Error {
	return New(KindValidation, op, message)
}

// Auth reports a login or registration rejected by the server.
func Auth(op string, status int, message string) *Error {
	e := New(KindAuth, op, message)
	e.Status = status
	return e
}

// Remote reports a non-2xx response or a transport failure from a gateway call.
func Remote(op string, status int, message string, cause error) *Error {
	return &Error{
		Kind:    KindRemote,
		Op:      op,
		Message: message,
		Status:  status,
		Cause:   cause,
	}
}

// Storage reports a credential persistence failure.
func Storage(op, message string, cause error) *Error {
	return &Error{
		Kind:    KindStorage,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// MessageOf returns the human readable message carried by err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var target *Error
	if errors.As(err, &target) && target.Message != "" {
		return target.Message
	}
	return err.Error()
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var target *Error
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}
