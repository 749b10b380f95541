package ensemble

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

// ForestOptions configures a RandomForest
type ForestOptions struct {
	// NumEstimators is the number of trees. Zero means 10.
	NumEstimators int
	// MaxSamples is the number of samples every tree is
	// grown on. Nil means all of them.
	MaxSamples SampleSize
	// Bootstrap makes trees be grown on samples drawn with
	// replacement.
	Bootstrap bool
	// RandomState seeds the generator drawing samples and
	// the random state of every tree. Nil means a seed from
	// the clock.
	RandomState *int64
	// MaxFeatures is the number of features every split of
	// every tree considers. Zero means the square root of
	// the number of features, rounded up.
	MaxFeatures int
	// Workers is the number of trees grown at the same time.
	// Zero means one.
	Workers int
	// TreeOptions are applied to every tree, like
	// feature labels or a pruning strategy.
	TreeOptions []grove.Option
	// Logger gets a line per tree grown. Nil means none.
	Logger grove.Logger
}

// Validate returns a Validation error if any of the options is invalid
func (o *ForestOptions) Validate() error {
	if o.MaxFeatures < 0 {
		return errors.Errorf(errors.Validation, "max features must not be negative, got %d", o.MaxFeatures)
	}
	return o.bagging(nil).Validate()
}

func (o *ForestOptions) bagging(factory EstimatorFactory) *BaggingOptions {
	return &BaggingOptions{
		NumEstimators: o.NumEstimators,
		MaxSamples:    o.MaxSamples,
		Bootstrap:     o.Bootstrap,
		RandomState:   o.RandomState,
		Workers:       o.Workers,
		Factory:       factory,
		Logger:        o.Logger,
	}
}

/*
RandomForest is a bagging ensemble of decision trees in which every split
of every tree considers only a random draw of the features.

It is safe for concurrent use by multiple goroutines.
*/
type RandomForest struct {
	opts ForestOptions

	lock        sync.RWMutex
	bagging     *BaggingClassifier
	maxFeatures int
}

// NewRandomForest returns an unfit forest with the given options or a
// Validation error if they are invalid.
func NewRandomForest(opts ForestOptions) (*RandomForest, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}
	return &RandomForest{opts: opts}, nil
}

// DefaultMaxFeatures returns the square root of the number of features
// rounded up.
func DefaultMaxFeatures(numFeatures int) int {
	return int(math.Ceil(math.Sqrt(float64(numFeatures))))
}

/*
Fit takes a context, a sample matrix and its labels and grows new trees on
them, replacing the ones the forest had. See BaggingClassifier.Fit.
*/
func (rf *RandomForest) Fit(ctx context.Context, X [][]feature.Value, y []feature.Value) error {
	numFeatures, err := dataset.ValidateRows(X, y)
	if err != nil {
		return errors.Wrapf(err, "fitting random forest")
	}
	maxFeatures := rf.opts.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = DefaultMaxFeatures(numFeatures)
	}
	treeOptions := append(append([]grove.Option{}, rf.opts.TreeOptions...), grove.WithMaxFeatures(maxFeatures))
	bc, err := NewBaggingClassifier(*rf.opts.bagging(TreeFactory(treeOptions...)))
	if err != nil {
		return err
	}
	err = bc.Fit(ctx, X, y)
	if err != nil {
		return err
	}
	rf.lock.Lock()
	defer rf.lock.Unlock()
	rf.bagging = bc
	rf.maxFeatures = maxFeatures
	return nil
}

func (rf *RandomForest) fitted() (*BaggingClassifier, error) {
	rf.lock.RLock()
	defer rf.lock.RUnlock()
	if rf.bagging == nil {
		return nil, errors.Errorf(errors.Configuration, "using an unfit random forest")
	}
	return rf.bagging, nil
}

// Predict returns the label most trees predict for every row of X
func (rf *RandomForest) Predict(ctx context.Context, X [][]feature.Value) ([]feature.Value, error) {
	bc, err := rf.fitted()
	if err != nil {
		return nil, err
	}
	return bc.Predict(ctx, X)
}

// PredictOne returns the label most trees predict for a single row
func (rf *RandomForest) PredictOne(row []feature.Value) (feature.Value, error) {
	bc, err := rf.fitted()
	if err != nil {
		return nil, err
	}
	return bc.PredictOne(row)
}

// Trees returns the trees of the forest, nil if unfit
func (rf *RandomForest) Trees() []*grove.DecisionTreeClassifier {
	bc, err := rf.fitted()
	if err != nil {
		return nil
	}
	estimators := bc.Estimators()
	trees := make([]*grove.DecisionTreeClassifier, 0, len(estimators))
	for _, e := range estimators {
		trees = append(trees, e.(*grove.DecisionTreeClassifier))
	}
	return trees
}

// ForestCheckpoint is the persisted state of a RandomForest
type ForestCheckpoint struct {
	Estimators    []*grove.Checkpoint `json:"estimators"`
	RandomState   *int64              `json:"random_state,omitempty"`
	Bootstrap     bool                `json:"bootstrap"`
	MaxFeatures   int                 `json:"maxFeatures"`
	NumEstimators int                 `json:"numEstimators"`
}

// ToJSON returns the checkpoint of a fit forest, or a Configuration
// error if the forest is unfit.
func (rf *RandomForest) ToJSON() (*ForestCheckpoint, error) {
	bc, err := rf.fitted()
	if err != nil {
		return nil, errors.Errorf(errors.Configuration, "cannot checkpoint an unfit random forest")
	}
	cp, err := bc.ToJSON()
	if err != nil {
		return nil, err
	}
	rf.lock.RLock()
	cp.MaxFeatures = rf.maxFeatures
	rf.lock.RUnlock()
	return cp, nil
}

/*
FromJSON takes a checkpoint and restores the forest from it, replacing its
trees. It returns an error, leaving the forest as it was, if any of the
trees cannot be restored.
*/
func (rf *RandomForest) FromJSON(cp *ForestCheckpoint) error {
	if cp == nil || len(cp.Estimators) == 0 {
		return errors.Errorf(errors.InvalidInput, "restoring random forest from a checkpoint without trees")
	}
	estimators := make([]Estimator, 0, len(cp.Estimators))
	for i, tcp := range cp.Estimators {
		t := grove.NewDecisionTreeClassifier()
		err := t.FromJSON(tcp)
		if err != nil {
			return errors.Wrapf(err, "restoring tree %d", i)
		}
		estimators = append(estimators, t)
	}
	rf.lock.RLock()
	opts := rf.opts
	rf.lock.RUnlock()
	opts.NumEstimators = len(estimators)
	opts.Bootstrap = cp.Bootstrap
	opts.RandomState = cp.RandomState
	opts.MaxFeatures = cp.MaxFeatures
	bc, err := NewBaggingClassifier(*opts.bagging(nil))
	if err != nil {
		return err
	}
	bc.estimators = estimators
	rf.lock.Lock()
	defer rf.lock.Unlock()
	rf.opts = opts
	rf.bagging = bc
	rf.maxFeatures = cp.MaxFeatures
	return nil
}

// MarshalJSON encodes the checkpoint of the forest as JSON
func (rf *RandomForest) MarshalJSON() ([]byte, error) {
	cp, err := rf.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cp)
}

// UnmarshalJSON restores the forest from a JSON checkpoint
func (rf *RandomForest) UnmarshalJSON(data []byte) error {
	cp := &ForestCheckpoint{}
	err := json.Unmarshal(data, cp)
	if err != nil {
		return errors.Errorf(errors.InvalidInput, "decoding random forest: %v", err)
	}
	return rf.FromJSON(cp)
}
