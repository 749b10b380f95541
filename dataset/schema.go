package dataset

import (
	"fmt"

	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

// UndefinedValue is the textual form of a missing value on stored samples
const UndefinedValue = "?"

/*
Schema describes stored samples: the features in the order they take on
the rows of a sample matrix, and the label.
*/
type Schema struct {
	Features []feature.Feature
	Label    feature.Feature
}

/*
NewSchema takes the features of stored samples and the name of the one
holding their label and returns the schema with the rest of the features
in the same order. An empty name picks the last feature as label. It
returns an error if there is no feature with the name or no feature
would remain for the rows.
*/
func NewSchema(features []feature.Feature, labelName string) (*Schema, error) {
	if len(features) < 2 {
		return nil, errors.Errorf(errors.Configuration, "a schema needs at least a feature and a label, got %d features", len(features))
	}
	li := len(features) - 1
	if labelName != "" {
		li = feature.Find(features, labelName)
		if li < 0 {
			return nil, errors.Errorf(errors.Configuration, "unknown label feature %s", labelName)
		}
	}
	s := &Schema{Label: features[li]}
	for i, f := range features {
		if i != li {
			s.Features = append(s.Features, f)
		}
	}
	return s, nil
}

// FeatureLabels returns the names of the features of the schema
func (s *Schema) FeatureLabels() []string {
	return feature.Names(s.Features)
}

// Columns returns the features followed by the label, if any
func (s *Schema) Columns() []feature.Feature {
	columns := append([]feature.Feature{}, s.Features...)
	if s.Label != nil {
		columns = append(columns, s.Label)
	}
	return columns
}

/*
Check takes a row and its label and returns an error if the row does not
have a value for every feature, or any of the values (the label included)
is not nil nor valid for its feature.
*/
func (s *Schema) Check(row []feature.Value, label feature.Value) error {
	if len(row) != len(s.Features) {
		return errors.Errorf(errors.ShapeMismatch, "row has %d values for %d features", len(row), len(s.Features))
	}
	for i, f := range s.Features {
		if err := check(f, row[i]); err != nil {
			return err
		}
	}
	if s.Label != nil {
		return check(s.Label, label)
	}
	return nil
}

func check(f feature.Feature, v feature.Value) error {
	if v == nil {
		return nil
	}
	if ok, err := f.Valid(v); !ok {
		return errors.Errorf(errors.InvalidInput, "invalid value %v of type %T for feature %s: %v", v, v, f.Name(), err)
	}
	return nil
}

/*
Parse takes a feature and the textual form of a value and returns the
value, nil for the UndefinedValue, or an error if the feature does not
accept it.
*/
func Parse(f feature.Feature, s string) (feature.Value, error) {
	if s == UndefinedValue {
		return nil, nil
	}
	v, err := f.Parse(s)
	if err != nil {
		return nil, errors.Errorf(errors.InvalidInput, "%v", err)
	}
	return v, nil
}

// Format returns the textual form of a value, the UndefinedValue for nil
func Format(v feature.Value) string {
	if v == nil {
		return UndefinedValue
	}
	return feature.Format(v)
}

func (s *Schema) String() string {
	return fmt.Sprintf("%v -> %v", s.FeatureLabels(), s.Label)
}
