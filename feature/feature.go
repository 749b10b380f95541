package feature

import (
	"fmt"
	"strconv"
)

/*
Feature represents a property that can be observed on a sample. Features
describe the columns of the data a tree is grown from: their names and how
their values are read.

Its Parse method takes the textual form of a value and returns the value.

Its Valid method returns whether a value is acceptable for the feature.
*/
type Feature interface {
	Name() string
	Parse(string) (Value, error)
	Valid(Value) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
BooleanFeature represents a property that can be observed and that is either
true or false
*/
type BooleanFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

// NewBooleanFeature takes a name string and returns a boolean feature
func NewBooleanFeature(name string) *BooleanFeature {
	return &BooleanFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Parse returns the given string as a value for the feature, or an error if it
is not among its available values.
*/
func (df *DiscreteFeature) Parse(s string) (Value, error) {
	if _, err := df.Valid(s); err != nil {
		return nil, err
	}
	return s, nil
}

/*
Valid receives a value and returns a boolean and an error. When the
value parameter is included in the available values of the feature, the method
returns true and nil. Otherwise it returns false and an error describing the
reason. A feature without available values accepts any string.
*/
func (df *DiscreteFeature) Valid(value Value) (bool, error) {
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Parse returns the given string parsed as a finite float64
func (cf *ContinuousFeature) Parse(s string) (Value, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("continuous feature %s: converting %q to float64: %v", cf.name, s, err)
	}
	if !IsFinite(v) {
		return nil, fmt.Errorf("continuous feature %s: %q is not a finite number", cf.name, s)
	}
	return v, nil
}

/*
Valid receives a value and returns a boolean and an error. When the
value parameter is a finite float64 it returns true and nil, otherwise it
returns false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value Value) (bool, error) {
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous feature %s expects float64 value, got %T value", cf.Name(), value)
	}
	if !IsFinite(value) {
		return false, fmt.Errorf("continuous feature %s expects a finite value, got %v", cf.Name(), value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

// Name returns a string with the name of the feature
func (bf *BooleanFeature) Name() string {
	return bf.name
}

// Parse returns the given string parsed as a bool
func (bf *BooleanFeature) Parse(s string) (Value, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("boolean feature %s: converting %q to bool: %v", bf.name, s, err)
	}
	return v, nil
}

// Valid returns true and nil when the value is a bool
func (bf *BooleanFeature) Valid(value Value) (bool, error) {
	if _, ok := value.(bool); !ok {
		return false, fmt.Errorf("boolean feature %s expects bool value, got %T value", bf.Name(), value)
	}
	return true, nil
}

func (bf *BooleanFeature) String() string {
	return bf.name
}

/*
Names takes a slice of features and returns a slice with their names in
the same order.
*/
func Names(features []Feature) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

/*
Find takes a slice of features and a name and returns the index of the
feature with that name, or -1 if there is none.
*/
func Find(features []Feature, name string) int {
	for i, f := range features {
		if f.Name() == name {
			return i
		}
	}
	return -1
}
