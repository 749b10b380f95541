package ensemble

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pbanos/grove/errors"
)

/*
SampleSize is the number of samples drawn to train every member of an
ensemble, either an absolute count (SampleCount) or a fraction of the
training samples (SampleFraction).
*/
type SampleSize interface {
	// Resolve returns the number of samples to draw out of n, or a
	// Validation error if the size cannot be honoured.
	Resolve(n int) (int, error)
	// Validate returns a Validation error if the size is invalid for
	// any number of samples.
	Validate() error
	fmt.Stringer
}

// SampleCount is a SampleSize of an absolute number of samples
type SampleCount int

// Validate returns an error unless the count is positive
func (sc SampleCount) Validate() error {
	if sc <= 0 {
		return errors.Errorf(errors.Validation, "sample count must be positive, got %d", int(sc))
	}
	return nil
}

// Resolve returns the count, or an error if it is above n
func (sc SampleCount) Resolve(n int) (int, error) {
	if err := sc.Validate(); err != nil {
		return 0, err
	}
	if int(sc) > n {
		return 0, errors.Errorf(errors.Validation, "sample count %d exceeds the %d available samples", int(sc), n)
	}
	return int(sc), nil
}

func (sc SampleCount) String() string {
	return fmt.Sprintf("%d", int(sc))
}

// SampleFraction is a SampleSize of a fraction in (0, 1] of the samples
type SampleFraction float64

// Validate returns an error unless the fraction is in (0, 1]
func (sf SampleFraction) Validate() error {
	if math.IsNaN(float64(sf)) || sf <= 0 || sf > 1 {
		return errors.Errorf(errors.Validation, "sample fraction must be in (0, 1], got %v", float64(sf))
	}
	return nil
}

// Resolve returns the fraction of n rounded to the nearest integer, and
// never less than one sample.
func (sf SampleFraction) Resolve(n int) (int, error) {
	if err := sf.Validate(); err != nil {
		return 0, err
	}
	size := int(math.Round(float64(sf) * float64(n)))
	if size < 1 {
		size = 1
	}
	return size, nil
}

func (sf SampleFraction) String() string {
	return fmt.Sprintf("%v", float64(sf))
}

/*
Indices takes a generator, the number of available samples n, a sample
size and whether to bootstrap, and returns the indices of the samples to
draw. With bootstrap the indices are drawn uniformly with replacement.
Otherwise they are distinct, drawn without replacement.
*/
func Indices(r *rand.Rand, n int, size SampleSize, bootstrap bool) ([]int, error) {
	if n <= 0 {
		return nil, errors.Errorf(errors.EmptyInput, "drawing samples out of an empty set")
	}
	sampleSize, err := size.Resolve(n)
	if err != nil {
		return nil, err
	}
	if sampleSize > n {
		sampleSize = n
	}
	indices := make([]int, sampleSize)
	if bootstrap {
		for i := range indices {
			indices[i] = r.Intn(n)
		}
		return indices, nil
	}
	// partial Fisher-Yates shuffle over [0, n)
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < sampleSize; i++ {
		j := i + r.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		indices[i] = pool[i]
	}
	return indices, nil
}
