// Package errors provides the error values returned while resolving API documents.
//
// Sentinels are declared as string constants of type Error so they can be
// compared with Is and wrapped with extra context. The typed errors in this
// package carry the structured details of each failure kind and match their
// sentinel through errors.Is.
package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrSeparator separates a message from its cause in a wrapped error.
const ErrSeparator = " -- "

// Error is a string based error type allowing const sentinel errors.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target is this Error or an Error wrapped by it.
func (s Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return s.Error() == target.Error() || strings.HasPrefix(target.Error(), s.Error()+ErrSeparator)
}

// As sets target to s when target is a *Error.
func (s Error) As(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return false
	}
	v = v.Elem()
	if v.Type().Name() == "Error" && v.Kind() == reflect.String && v.CanSet() {
		v.SetString(string(s))
		return true
	}
	return false
}

// Wrap adds err as the cause of this Error.
func (s Error) Wrap(err error) error {
	return wrappedError{cause: err, msg: string(s)}
}

type wrappedError struct {
	cause error
	msg   string
}

func (w wrappedError) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s%s%v", w.msg, ErrSeparator, w.cause)
	}
	return w.msg
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) As(target any) bool {
	return Error(w.msg).As(target)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// Is reports whether any error in err's tree matches target.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns a new error with the specified message.
func New(message string) error {
	return errors.New(message)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
