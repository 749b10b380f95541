package ensemble

import (
	"context"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/feature"
)

// Estimator is a classifier that can be fit on a sample matrix and its
// labels and then predict labels for new rows.
type Estimator interface {
	Fit(ctx context.Context, X [][]feature.Value, y []feature.Value) error
	Predict(ctx context.Context, X [][]feature.Value) ([]feature.Value, error)
}

// EstimatorFactory returns a new unfit estimator for an ensemble member.
// The seed is drawn from the ensemble's generator, so estimators that use
// randomness can be seeded with it to keep the ensemble reproducible.
type EstimatorFactory func(seed int64) Estimator

/*
TreeFactory returns an EstimatorFactory of decision tree classifiers built
with the given options and seeded with the member seed. The seed does not
make trees draw columns on their own: members consider every feature on
every split unless the options set a random state or max features.
*/
func TreeFactory(opts ...grove.Option) EstimatorFactory {
	return func(seed int64) Estimator {
		return grove.NewDecisionTreeClassifier(append(append([]grove.Option{}, opts...), grove.WithSeed(seed))...)
	}
}
