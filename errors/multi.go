package errors

import (
	"bytes"
	"fmt"
)

// Errors is a non-empty list of errors. A nil Errors value means no error,
// so clients can compare it with nil as they would any other error.
type Errors interface {
	error
	// Slice returns a copy of the errors held.
	Slice() []error
	// Len is always > 0
	Len() int

	sliceNoCopy() []error
	append(e error) Errors
}

type errorSlice []error

func (m errorSlice) append(e error) Errors {
	return errorSlice(append(m, e))
}

func (m errorSlice) sliceNoCopy() []error {
	return []error(m)
}

func (m errorSlice) Slice() []error {
	return append([]error(nil), m...)
}

func (m errorSlice) Len() int {
	return len(m)
}

func (m errorSlice) Error() string {
	var b bytes.Buffer
	for i, err := range m {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprint(&b, err)
	}
	return b.String()
}

// Append adds err to errs and returns the result. A nil err leaves errs
// unchanged; an Errors err is flattened into errs.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	if errs == nil {
		errs = errorSlice(nil)
	}
	if multi, ok := err.(Errors); ok && multi != nil {
		for _, e := range multi.sliceNoCopy() {
			errs = errs.append(e)
		}
		return errs
	}
	return errs.append(err)
}

// Combine returns a single error holding both e and f. If either is nil
// the other one is returned as is.
func Combine(e, f error) error {
	switch {
	case e == nil:
		return f
	case f == nil:
		return e
	}
	var errs Errors
	if multi, ok := e.(Errors); ok {
		// copy so that the backing array of e is never written to
		errs = errorSlice(multi.Slice())
	} else {
		errs = errorSlice{e}
	}
	return Append(errs, f)
}

// Defer combines the error pointed by err with the result of f. Use it
// to keep the errors of deferred Close calls.
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
