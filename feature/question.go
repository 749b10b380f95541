package feature

import (
	"fmt"

	"github.com/pbanos/grove/errors"
)

/*
Question represents a test on the value of a single feature of a sample,
the column of a row. Its Value determines the kind of test: for numeric
values a row matches the question when its value for the column is greater
or equal to it, for any other value a row matches when its value for the
column equals it.

FeatureLabels holds the names of the columns and is only used to render
the question for humans. It may be nil.
*/
type Question struct {
	FeatureLabels []string
	Column        int
	Value         Value
}

/*
NewQuestion takes a slice of feature labels (that may be nil), a column
index and a value and returns a Question on the column with the value.
*/
func NewQuestion(featureLabels []string, column int, value Value) *Question {
	return &Question{FeatureLabels: featureLabels, Column: column, Value: value}
}

/*
Match takes a row and returns whether it satisfies the question. A row
without a value for the question's column never matches, and neither does
a non-numeric value when the question's value is numeric.
*/
func (q *Question) Match(row []Value) bool {
	if q.Column < 0 || q.Column >= len(row) {
		return false
	}
	v := row[q.Column]
	if threshold, ok := q.Value.(float64); ok {
		fv, ok := v.(float64)
		return ok && fv >= threshold
	}
	return v == q.Value
}

// Numeric returns whether the question compares against a threshold
func (q *Question) Numeric() bool {
	return IsNumeric(q.Value)
}

func (q *Question) operator() string {
	if q.Numeric() {
		return ">="
	}
	return "=="
}

/*
Render returns the question as a human readable string of the form
"Is <label> <op> <value>", or a Configuration error if the question has no
feature labels or none for its column.
*/
func (q *Question) Render() (string, error) {
	if q.FeatureLabels == nil {
		return "", errors.Errorf(errors.Configuration, "cannot render question on column %d: no feature labels", q.Column)
	}
	if q.Column < 0 || q.Column >= len(q.FeatureLabels) {
		return "", errors.Errorf(errors.Configuration, "cannot render question on column %d: only %d feature labels available", q.Column, len(q.FeatureLabels))
	}
	return fmt.Sprintf("Is %s %s %s", q.FeatureLabels[q.Column], q.operator(), Format(q.Value)), nil
}

func (q *Question) String() string {
	s, err := q.Render()
	if err != nil {
		return fmt.Sprintf("Is column[%d] %s %s", q.Column, q.operator(), Format(q.Value))
	}
	return s
}
