package pkg

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
//
// The sentinels below are shared by the command-line packages and can be
// tested using errors.Is.
type Error []error

// ErrReadInput is returned when reading a script fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = MakeErrorf("failed to read input")

// ErrSourceNotFound is returned when a script name cannot be resolved to a
// file in the working directory or any search path.
var ErrSourceNotFound = MakeErrorf("source not found")

// ErrInvalidDefine is returned when a --define argument is not of the form
// name=expression or its expression cannot be evaluated.
var ErrInvalidDefine = MakeErrorf("invalid definition")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(e, err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether every error of target also appears in e. A chain built
// by wrapping a sentinel therefore matches that sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 {
		return false
	}

	for _, want := range t {
		if !e.contains(want) {
			return false
		}
	}

	return true
}

func (e Error) contains(err error) bool {
	if _, ok := err.(Error); ok {
		return false
	}

	for _, x := range e {
		if _, ok := x.(Error); ok {
			continue
		}

		if x == err {
			return true
		}
	}

	return false
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
