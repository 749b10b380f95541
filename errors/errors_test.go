package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorfKind(t *testing.T) {
	err := Errorf(ShapeMismatch, "X has %d rows but y has %d labels", 3, 2)
	require.Error(t, err)
	assert.Equal(t, ShapeMismatch, KindOf(err))
	assert.True(t, Is(err, ShapeMismatch))
	assert.False(t, Is(err, Validation))
	assert.Equal(t, "shape mismatch: X has 3 rows but y has 2 labels", err.Error())
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := Errorf(Validation, "bad option")
	wrapped := Wrapf(Wrapf(err, "building ensemble"), "fitting")
	assert.True(t, Is(wrapped, Validation))
	assert.Equal(t, "fitting: building ensemble: validation: bad option", wrapped.Error())

	stdWrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, Is(stdWrapped, Validation))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, Is(nil, Configuration))
}

func TestWrapfNil(t *testing.T) {
	assert.NoError(t, Wrapf(nil, "nothing to wrap"))
}

func TestAppendNil(t *testing.T) {
	err := New("error")
	errs := Append(nil, err).sliceNoCopy()
	require.Len(t, errs, 1)
	require.Equal(t, err, errs[0])

	errs = Append(errorSlice{err}, nil).sliceNoCopy()
	require.Len(t, errs, 1)
	require.Equal(t, err, errs[0])

	assert.Nil(t, Append(nil, nil))
}

func TestAppendFlattens(t *testing.T) {
	err0, err1, err2 := New("error0"), New("error1"), New("error2")
	var errs01 Errors
	errs01 = Append(errs01, err0)
	errs01 = Append(errs01, err1)

	errs := Append(errs01, Append(nil, err2)).sliceNoCopy()
	require.Len(t, errs, 3)
	assert.Equal(t, []error{err0, err1, err2}, errs)
}

func TestCombine(t *testing.T) {
	err0, err1, err2 := New("error0"), New("error1"), New("error2")
	assert.Equal(t, err0, Combine(err0, nil))
	assert.Equal(t, err0, Combine(nil, err0))

	errs01 := Combine(err0, err1).(Errors)
	require.Equal(t, 2, errs01.Len())

	errs012 := Combine(errs01, err2).(Errors)
	assert.Equal(t, []error{err0, err1, err2}, errs012.Slice())
	// combining must not modify the first argument
	assert.Equal(t, 2, errs01.Len())
	assert.Equal(t, "error0\nerror1\nerror2", errs012.Error())
}

func TestIsOnErrors(t *testing.T) {
	errs := Combine(New("plain"), Errorf(Validation, "bad"))
	assert.True(t, Is(errs, Validation))
	assert.False(t, Is(errs, ShapeMismatch))
}

func TestDefer(t *testing.T) {
	var err error
	Defer(&err, func() error { return nil })
	assert.NoError(t, err)
	closeErr := New("close failed")
	Defer(&err, func() error { return closeErr })
	assert.Equal(t, closeErr, err)
}
