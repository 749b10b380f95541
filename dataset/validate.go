package dataset

import (
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

/*
ValidateMatrix takes a sample matrix and returns its number of features or
an error. The matrix must have at least one row, every row must have the
same non-zero number of values, and every value must be a number, a string
or a bool.
*/
func ValidateMatrix(X [][]feature.Value) (int, error) {
	if len(X) == 0 {
		return 0, errors.Errorf(errors.EmptyInput, "sample matrix has no rows")
	}
	numFeatures := len(X[0])
	if numFeatures == 0 {
		return 0, errors.Errorf(errors.EmptyInput, "sample matrix rows have no features")
	}
	for i, row := range X {
		if len(row) != numFeatures {
			return 0, errors.Errorf(errors.ShapeMismatch, "row %d has %d features, expected %d", i, len(row), numFeatures)
		}
		for j, v := range row {
			if _, err := feature.Normalize(v); err != nil {
				return 0, errors.Errorf(errors.InvalidInput, "row %d column %d: %v", i, j, err)
			}
		}
	}
	return numFeatures, nil
}

/*
ValidateRows takes a sample matrix and its labels and returns the number
of features of the matrix or an error. On top of the checks of
ValidateMatrix, labels must be as many as rows and be numbers, strings or
bools.
*/
func ValidateRows(X [][]feature.Value, y []feature.Value) (int, error) {
	if len(y) == 0 {
		return 0, errors.Errorf(errors.EmptyInput, "label vector is empty")
	}
	if len(X) != len(y) {
		if len(X) == 0 {
			return 0, errors.Errorf(errors.EmptyInput, "sample matrix has no rows for %d labels", len(y))
		}
		return 0, errors.Errorf(errors.ShapeMismatch, "sample matrix has %d rows but there are %d labels", len(X), len(y))
	}
	numFeatures, err := ValidateMatrix(X)
	if err != nil {
		return 0, err
	}
	for i, l := range y {
		if _, err := feature.Normalize(l); err != nil {
			return 0, errors.Errorf(errors.InvalidInput, "label %d: %v", i, err)
		}
	}
	return numFeatures, nil
}

// NormalizeMatrix returns a copy of X with every value normalized
func NormalizeMatrix(X [][]feature.Value) ([][]feature.Value, error) {
	nX := make([][]feature.Value, len(X))
	for i, row := range X {
		nrow := make([]feature.Value, len(row))
		for j, v := range row {
			nv, err := feature.Normalize(v)
			if err != nil {
				return nil, errors.Errorf(errors.InvalidInput, "row %d column %d: %v", i, j, err)
			}
			nrow[j] = nv
		}
		nX[i] = nrow
	}
	return nX, nil
}

// NormalizeLabels returns a copy of y with every label normalized
func NormalizeLabels(y []feature.Value) ([]feature.Value, error) {
	ny := make([]feature.Value, len(y))
	for i, l := range y {
		nl, err := feature.Normalize(l)
		if err != nil {
			return nil, errors.Errorf(errors.InvalidInput, "label %d: %v", i, err)
		}
		ny[i] = nl
	}
	return ny, nil
}
