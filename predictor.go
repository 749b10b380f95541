package grove

import (
	"context"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

// Predictor is implemented by classifiers that can predict the label of a
// single row.
type Predictor interface {
	PredictOne(row []feature.Value) (feature.Value, error)
}

/*
Test takes a context.Context, a Predictor and a sample matrix with its
labels and returns three values:
  * the prediction success rate of the predictor over the given samples
  * the number of samples that could not be predicted because they had
    the wrong number of features or values the predictor cannot handle,
    like the undefined values of a CSV
  * an error if a prediction failed for other reasons, or if the labels
    and rows cannot be paired. If this is not nil, the other values will
    be 0.0 and 0 respectively
Samples that cannot be predicted count as failures for the success rate.
*/
func Test(ctx context.Context, p Predictor, X [][]feature.Value, y []feature.Value) (float64, int, error) {
	if len(X) != len(y) {
		return 0.0, 0, errors.Errorf(errors.ShapeMismatch, "testing with %d rows and %d labels", len(X), len(y))
	}
	if len(y) == 0 {
		return 0.0, 0, errors.Errorf(errors.EmptyInput, "testing with no samples")
	}
	labels, err := dataset.NormalizeLabels(y)
	if err != nil {
		return 0.0, 0, err
	}
	var result float64
	var errCount int
	for i, row := range X {
		if err := ctx.Err(); err != nil {
			return 0.0, 0, err
		}
		prediction, err := p.PredictOne(row)
		if err != nil {
			if !errors.Is(err, errors.InvalidInput) && !errors.Is(err, errors.ShapeMismatch) {
				return 0.0, 0, errors.Wrapf(err, "testing sample %d", i)
			}
			errCount++
			continue
		}
		if prediction == labels[i] {
			result += 1.0
		}
	}
	return result / float64(len(y)), errCount, nil
}
