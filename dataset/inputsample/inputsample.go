/*
Package inputsample reads the row of a single sample from an io.Reader,
requesting the value of every feature before reading it.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pbanos/grove/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string, error) error
}

// Reader reads sample rows from an io.Reader, one value per line
type Reader struct {
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
}

/*
New takes an io.Reader, a FeatureValueRequester and an undefinedValue
coding string and returns a Reader.

The reader expects each value to be presented ending with the
'\n' character, that is in new lines. Also, the undefinedValue
string followed by the '\n' character will be interpreted as an
undefined value.
*/
func New(r io.Reader, featureValueRequester FeatureValueRequester, undefinedValue string) *Reader {
	return &Reader{
		undefinedValue:        undefinedValue,
		scanner:               bufio.NewScanner(r),
		featureValueRequester: featureValueRequester,
	}
}

/*
ReadRow takes the features of a row and reads a value for each of them,
requesting it with the reader's FeatureValueRequester first. Lines are
read until one the feature can parse (or the undefined value) is found,
rejecting the rest with the FeatureValueRequester's RejectValueFor
method. It returns an error if the reader ends before every value is
read or the requester fails.
*/
func (r *Reader) ReadRow(features []feature.Feature) ([]feature.Value, error) {
	row := make([]feature.Value, 0, len(features))
	for _, f := range features {
		v, err := r.ReadValue(f)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

// ReadValue requests and reads the value of a single feature
func (r *Reader) ReadValue(f feature.Feature) (feature.Value, error) {
	err := r.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return nil, err
	}
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == r.undefinedValue {
			return nil, nil
		}
		v, err := f.Parse(line)
		if err == nil {
			if _, err = f.Valid(v); err == nil {
				return v, nil
			}
		}
		err = r.featureValueRequester.RejectValueFor(f, line, err)
		if err != nil {
			return nil, err
		}
	}
	err = r.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", f.Name())
}

type promptRequester struct {
	w              io.Writer
	undefinedValue string
}

/*
NewPrompter takes an io.Writer and the undefinedValue coding string and
returns a FeatureValueRequester that writes human readable prompts and
rejections on the writer.
*/
func NewPrompter(w io.Writer, undefinedValue string) FeatureValueRequester {
	return &promptRequester{w, undefinedValue}
}

func (pr *promptRequester) RequestValueFor(f feature.Feature) error {
	_, err := fmt.Fprintf(pr.w, "Please provide the sample's %s:\n(valid values are %s or %s if undefined)\n", f.Name(), validValues(f), pr.undefinedValue)
	return err
}

func (pr *promptRequester) RejectValueFor(f feature.Feature, value string, reason error) error {
	_, err := fmt.Fprintf(pr.w, "%s is not a valid value for the sample's %s. Please provide %s or %s if undefined.\n", value, f.Name(), validValues(f), pr.undefinedValue)
	return err
}

func validValues(f feature.Feature) string {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		if len(f.AvailableValues()) > 0 {
			return fmt.Sprintf("one of %v", f.AvailableValues())
		}
		return "any text"
	case *feature.ContinuousFeature:
		return "real numbers"
	case *feature.BooleanFeature:
		return "true or false"
	}
	return "unknown values"
}
