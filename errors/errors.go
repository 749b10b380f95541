/*
Package errors defines the kinds of errors returned by grove and helpers
to build, wrap and combine them.

Every error built with Errorf carries a Kind and a stack trace, so callers
can tell a shape mismatch from a bad option with Is, no matter how many
times the error was wrapped with Wrapf on its way up.
*/
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error
type Kind string

const (
	// ShapeMismatch is the kind of errors caused by samples and labels of
	// different length or by rows with a different number of features.
	ShapeMismatch Kind = "shape mismatch"
	// EmptyInput is the kind of errors caused by empty samples or labels.
	EmptyInput Kind = "empty input"
	// Validation is the kind of errors caused by invalid options.
	Validation Kind = "validation"
	// Configuration is the kind of errors caused by operations whose
	// preconditions are not met, like predicting with an unfit classifier.
	Configuration Kind = "configuration"
	// InvalidInput is the kind of errors caused by degenerate input, like
	// the impurity of an empty label set.
	InvalidInput Kind = "invalid input"
)

// Error is an error of a specific Kind
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf returns an error of the given kind with a formatted message and a
// stack trace.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// New is re-exported from github.com/pkg/errors
var New = errors.New

// WithStack is re-exported from github.com/pkg/errors
var WithStack = errors.WithStack

// Cause is re-exported from github.com/pkg/errors
var Cause = errors.Cause

// Wrapf annotates err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of the first *Error found on the chain of
// causes of err, or an empty Kind if there is none.
func KindOf(err error) Kind {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Kind
		case Errors:
			for _, se := range e.sliceNoCopy() {
				if k := KindOf(se); k != "" {
					return k
				}
			}
			return ""
		case interface{ Cause() error }:
			err = e.Cause()
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return ""
		}
	}
	return ""
}

// Is returns whether err is, or wraps, an error of the given kind. For
// an Errors value it returns true if any of the errors it holds is.
func Is(err error, kind Kind) bool {
	if errs, ok := err.(Errors); ok {
		for _, e := range errs.sliceNoCopy() {
			if Is(e, kind) {
				return true
			}
		}
		return false
	}
	return err != nil && KindOf(err) == kind
}
