package dataset

import (
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

/*
Dataset represents a collection of samples, the rows of a sample matrix,
each with its label.

Datasets are immutable: Subset and Partition return new datasets that
share the rows of the original one instead of copying them, so subsetting
costs memory proportional to the number of rows, not to their values.

FeatureLabels holds the names of the columns of the rows, if known. It is
carried over to subsets and partitions.
*/
type Dataset struct {
	FeatureLabels []string
	x             [][]feature.Value
	y             []feature.Value
	numFeatures   int
}

/*
New takes a sample matrix and its labels, validates them and returns a
dataset with normalized copies of them, or an error of kind EmptyInput,
ShapeMismatch or InvalidInput describing what is wrong with the input.
*/
func New(X [][]feature.Value, y []feature.Value) (*Dataset, error) {
	numFeatures, err := ValidateRows(X, y)
	if err != nil {
		return nil, err
	}
	nX, err := NormalizeMatrix(X)
	if err != nil {
		return nil, err
	}
	ny, err := NormalizeLabels(y)
	if err != nil {
		return nil, err
	}
	return &Dataset{x: nX, y: ny, numFeatures: numFeatures}, nil
}

/*
NewWithFeatureLabels behaves as New but sets the feature labels of the
dataset. It fails with a ShapeMismatch error if there are fewer labels
than columns. Extra labels, like the name of the label column, are kept.
*/
func NewWithFeatureLabels(featureLabels []string, X [][]feature.Value, y []feature.Value) (*Dataset, error) {
	ds, err := New(X, y)
	if err != nil {
		return nil, err
	}
	if featureLabels != nil && len(featureLabels) < ds.numFeatures {
		return nil, errors.Errorf(errors.ShapeMismatch, "got %d feature labels for %d features", len(featureLabels), ds.numFeatures)
	}
	ds.FeatureLabels = featureLabels
	return ds, nil
}

// Count returns the number of samples in the dataset
func (ds *Dataset) Count() int {
	return len(ds.y)
}

// NumFeatures returns the number of columns of the rows of the dataset
func (ds *Dataset) NumFeatures() int {
	return ds.numFeatures
}

// Rows returns the rows of the dataset. They must not be modified.
func (ds *Dataset) Rows() [][]feature.Value {
	return ds.x
}

// Labels returns the labels of the dataset. They must not be modified.
func (ds *Dataset) Labels() []feature.Value {
	return ds.y
}

/*
Subset takes a slice of indices and returns a dataset with the samples of
ds at those positions, in the given order. An index may be repeated. An
InvalidInput error is returned if any index is out of range.
*/
func (ds *Dataset) Subset(indices []int) (*Dataset, error) {
	x := make([][]feature.Value, 0, len(indices))
	y := make([]feature.Value, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(ds.y) {
			return nil, errors.Errorf(errors.InvalidInput, "subset index %d out of range [0, %d)", i, len(ds.y))
		}
		x = append(x, ds.x[i])
		y = append(y, ds.y[i])
	}
	return ds.derive(x, y), nil
}

/*
Partition takes a question and splits the dataset in two: the samples
whose rows match the question and the samples whose rows don't. Both
keep the relative order the samples had in ds.
*/
func (ds *Dataset) Partition(q *feature.Question) (*Dataset, *Dataset) {
	tx, ty, fx, fy := Partition(ds.x, ds.y, q)
	return ds.derive(tx, ty), ds.derive(fx, fy)
}

/*
ColumnValues takes a column index and returns the distinct values taken by
the rows of the dataset on that column, in the order they first appear.
*/
func (ds *Dataset) ColumnValues(column int) []feature.Value {
	var values []feature.Value
	seen := make(map[feature.Value]bool)
	for _, row := range ds.x {
		v := row[column]
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// ClassCounts returns the counts of the labels of the dataset
func (ds *Dataset) ClassCounts() *Counts {
	return ClassCounts(ds.y)
}

// Gini returns the Gini impurity of the labels of the dataset
func (ds *Dataset) Gini() (float64, error) {
	return Gini(ds.y)
}

func (ds *Dataset) derive(x [][]feature.Value, y []feature.Value) *Dataset {
	return &Dataset{FeatureLabels: ds.FeatureLabels, x: x, y: y, numFeatures: ds.numFeatures}
}

/*
Partition takes a sample matrix, its labels and a question, and returns
the rows matching the question with their labels followed by the rest of
the rows with theirs. Inputs are not modified.
*/
func Partition(X [][]feature.Value, y []feature.Value, q *feature.Question) (trueX [][]feature.Value, trueY []feature.Value, falseX [][]feature.Value, falseY []feature.Value) {
	for i, row := range X {
		if q.Match(row) {
			trueX = append(trueX, row)
			trueY = append(trueY, y[i])
		} else {
			falseX = append(falseX, row)
			falseY = append(falseY, y[i])
		}
	}
	return
}
