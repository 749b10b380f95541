package ensemble

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

const defaultNumEstimators = 10

// BaggingOptions configures a BaggingClassifier
type BaggingOptions struct {
	// NumEstimators is the number of members. Zero means 10.
	NumEstimators int
	// MaxSamples is the number of samples every member
	// is trained on. Nil means all of them.
	MaxSamples SampleSize
	// Bootstrap makes members be trained on samples drawn
	// with replacement.
	Bootstrap bool
	// RandomState seeds the generator drawing samples and
	// member seeds. Nil means a seed from the clock.
	RandomState *int64
	// Workers is the number of members trained at the same
	// time. Zero means one.
	Workers int
	// Factory builds the members. Nil means decision trees that
	// consider every feature on every split, so members differ only
	// in the samples they are trained on.
	Factory EstimatorFactory
	// Logger gets a line per member trained. Nil means none.
	Logger grove.Logger
}

// Validate returns a Validation error if any of the options is invalid
func (o *BaggingOptions) Validate() error {
	if o.NumEstimators < 0 {
		return errors.Errorf(errors.Validation, "number of estimators must not be negative, got %d", o.NumEstimators)
	}
	if o.Workers < 0 {
		return errors.Errorf(errors.Validation, "workers must not be negative, got %d", o.Workers)
	}
	if o.MaxSamples != nil {
		return o.MaxSamples.Validate()
	}
	return nil
}

/*
BaggingClassifier trains NumEstimators members, each on its own random
draw of the training samples, and predicts the label most members vote
for.

It is safe for concurrent use by multiple goroutines.
*/
type BaggingClassifier struct {
	opts BaggingOptions

	lock       sync.RWMutex
	estimators []Estimator
}

// NewBaggingClassifier returns an unfit classifier with the given options
// or a Validation error if they are invalid.
func NewBaggingClassifier(opts BaggingOptions) (*BaggingClassifier, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}
	if opts.NumEstimators == 0 {
		opts.NumEstimators = defaultNumEstimators
	}
	if opts.MaxSamples == nil {
		opts.MaxSamples = SampleFraction(1)
	}
	if opts.Factory == nil {
		opts.Factory = TreeFactory()
	}
	if opts.Logger == nil {
		opts.Logger = grove.NopLogger()
	}
	return &BaggingClassifier{opts: opts}, nil
}

// Options returns the options of the classifier, with defaults applied
func (bc *BaggingClassifier) Options() BaggingOptions {
	return bc.opts
}

/*
Fit takes a context, a sample matrix and its labels, validates them and
trains new members on them, replacing the ones the classifier had.

The sample indices and the seed of every member are drawn one member
after the other from the classifier's generator, then members are
trained concurrently. A failed Fit returns the errors of every member
that failed combined, and leaves the previous members untouched.
*/
func (bc *BaggingClassifier) Fit(ctx context.Context, X [][]feature.Value, y []feature.Value) error {
	_, err := dataset.ValidateRows(X, y)
	if err != nil {
		return errors.Wrapf(err, "fitting bagging classifier")
	}
	seed := time.Now().UnixNano()
	if bc.opts.RandomState != nil {
		seed = *bc.opts.RandomState
	}
	r := rand.New(rand.NewSource(seed))
	estimators := make([]Estimator, bc.opts.NumEstimators)
	jobs := make([]Job, 0, bc.opts.NumEstimators)
	for i := range estimators {
		indices, err := Indices(r, len(y), bc.opts.MaxSamples, bc.opts.Bootstrap)
		if err != nil {
			return errors.Wrapf(err, "fitting bagging classifier")
		}
		memberSeed := r.Int63()
		i := i
		jobs = append(jobs, func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			subX := make([][]feature.Value, len(indices))
			subY := make([]feature.Value, len(indices))
			for j, idx := range indices {
				subX[j], subY[j] = X[idx], y[idx]
			}
			e := bc.opts.Factory(memberSeed)
			err := e.Fit(ctx, subX, subY)
			if err != nil {
				return errors.Wrapf(err, "fitting member %d", i)
			}
			bc.opts.Logger.Logf("fitted member %d on %d samples", i, len(indices))
			estimators[i] = e
			return nil
		})
	}
	pool := NewPool(bc.opts.Workers)
	pool.Add(jobs)
	err = pool.Wait()
	if err != nil {
		return err
	}
	bc.lock.Lock()
	defer bc.lock.Unlock()
	bc.estimators = estimators
	return nil
}

// Estimators returns the members of the classifier, nil if unfit
func (bc *BaggingClassifier) Estimators() []Estimator {
	bc.lock.RLock()
	defer bc.lock.RUnlock()
	return bc.estimators
}

/*
Predict takes a context and a sample matrix and returns the label most
members predict for every row. It fails with a Configuration error if the
classifier is unfit, or with the error of the first member that cannot
predict the rows.
*/
func (bc *BaggingClassifier) Predict(ctx context.Context, X [][]feature.Value) ([]feature.Value, error) {
	estimators := bc.Estimators()
	if estimators == nil {
		return nil, errors.Errorf(errors.Configuration, "predicting with an unfit ensemble")
	}
	if _, err := dataset.ValidateMatrix(X); err != nil {
		return nil, err
	}
	predictions := make([][]feature.Value, 0, len(estimators))
	for i, e := range estimators {
		p, err := e.Predict(ctx, X)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting with member %d", i)
		}
		predictions = append(predictions, p)
	}
	return Vote(predictions)
}

// PredictOne returns the label most members predict for a single row
func (bc *BaggingClassifier) PredictOne(row []feature.Value) (feature.Value, error) {
	predictions, err := bc.Predict(context.Background(), [][]feature.Value{row})
	if err != nil {
		return nil, err
	}
	return predictions[0], nil
}

/*
ToJSON returns the checkpoint of a fit classifier whose members are all
decision trees, which can be restored as a RandomForest considering every
feature on every split. It returns a Configuration error if the classifier
is unfit or any of its members is not a *grove.DecisionTreeClassifier.
*/
func (bc *BaggingClassifier) ToJSON() (*ForestCheckpoint, error) {
	estimators := bc.Estimators()
	if estimators == nil {
		return nil, errors.Errorf(errors.Configuration, "cannot checkpoint an unfit ensemble")
	}
	cp := &ForestCheckpoint{
		RandomState:   bc.opts.RandomState,
		Bootstrap:     bc.opts.Bootstrap,
		NumEstimators: len(estimators),
	}
	for i, e := range estimators {
		t, ok := e.(*grove.DecisionTreeClassifier)
		if !ok {
			return nil, errors.Errorf(errors.Configuration, "cannot checkpoint member %d of type %T", i, e)
		}
		tcp, err := t.ToJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "checkpointing tree %d", i)
		}
		cp.Estimators = append(cp.Estimators, tcp)
	}
	return cp, nil
}
