package grove

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
	tjson "github.com/pbanos/grove/tree/json"
)

// Checkpoint is the persisted state of a DecisionTreeClassifier
type Checkpoint = tjson.Checkpoint

/*
DecisionTreeClassifier fits a decision tree on a sample matrix and its
labels and predicts the labels of new rows with it.

A classifier starts unfit. Fit or FromJSON make it fit, and calling any of
them again replaces its tree as a whole. A failed Fit leaves the previous
tree, if any, untouched.

It is safe for concurrent use by multiple goroutines.
*/
type DecisionTreeClassifier struct {
	featureLabels []string
	verbose       bool
	randomState   *int64
	seed          *int64
	maxFeatures   int
	pruning       PruningStrategy
	workers       int
	logger        Logger

	lock        sync.RWMutex
	tree        *tree.Tree
	numFeatures int
	// minFeatures is the narrowest row the tree can route, for trees
	// restored without their number of features
	minFeatures int
}

// Option configures a DecisionTreeClassifier
type Option func(*DecisionTreeClassifier)

// WithFeatureLabels sets the names of the features, used only to render
// the tree. There may be more labels than features.
func WithFeatureLabels(featureLabels []string) Option {
	return func(c *DecisionTreeClassifier) {
		c.featureLabels = featureLabels
	}
}

// WithVerbose makes the classifier log every candidate split it evaluates
func WithVerbose(verbose bool) Option {
	return func(c *DecisionTreeClassifier) {
		c.verbose = verbose
	}
}

/*
WithRandomState sets the seed of the generator that draws the columns
considered at every split. Classifiers with a random state consider a
random draw of columns (with replacement) at every split, and two fits
with the same random state on the same data grow the same tree.
*/
func WithRandomState(seed int64) Option {
	return func(c *DecisionTreeClassifier) {
		c.randomState = &seed
	}
}

/*
WithSeed sets the seed of the generator that draws the columns considered
at every split, without making the classifier draw them. It takes
precedence over the random state, so ensembles can seed every member
while leaving column draws to WithRandomState and WithMaxFeatures.
*/
func WithSeed(seed int64) Option {
	return func(c *DecisionTreeClassifier) {
		c.seed = &seed
	}
}

// WithMaxFeatures sets the number of columns drawn at every split. A
// classifier with max features draws columns even without a random state.
func WithMaxFeatures(n int) Option {
	return func(c *DecisionTreeClassifier) {
		c.maxFeatures = n
	}
}

// WithPruningStrategy sets the strategy deciding when nodes stop being split
func WithPruningStrategy(ps PruningStrategy) Option {
	return func(c *DecisionTreeClassifier) {
		c.pruning = ps
	}
}

// WithWorkers sets the number of goroutines growing the tree
func WithWorkers(n int) Option {
	return func(c *DecisionTreeClassifier) {
		c.workers = n
	}
}

// WithLogger sets the logger verbose classifiers write to
func WithLogger(l Logger) Option {
	return func(c *DecisionTreeClassifier) {
		c.logger = l
	}
}

// NewDecisionTreeClassifier returns an unfit classifier with the given options
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	c := &DecisionTreeClassifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate returns a Validation error if any of the classifier options is invalid
func (c *DecisionTreeClassifier) Validate() error {
	if c.maxFeatures < 0 {
		return errors.Errorf(errors.Validation, "max features must not be negative, got %d", c.maxFeatures)
	}
	if c.workers < 0 {
		return errors.Errorf(errors.Validation, "workers must not be negative, got %d", c.workers)
	}
	return c.pruning.Validate()
}

/*
Fit takes a context, a sample matrix and its labels, validates them and
grows a new tree on them, replacing the one the classifier had. It returns
an error if the options or the input are invalid, if the context is done
before the tree is grown, or if growing it fails.
*/
func (c *DecisionTreeClassifier) Fit(ctx context.Context, X [][]feature.Value, y []feature.Value) error {
	err := c.Validate()
	if err != nil {
		return err
	}
	ds, err := dataset.New(X, y)
	if err != nil {
		return errors.Wrapf(err, "fitting decision tree")
	}
	ds.FeatureLabels = c.featureLabels
	seed := time.Now().UnixNano()
	switch {
	case c.seed != nil:
		seed = *c.seed
	case c.randomState != nil:
		seed = *c.randomState
	}
	opts := &GrowOptions{
		Pruning:     &c.pruning,
		Subsample:   c.randomState != nil || c.maxFeatures > 0,
		MaxFeatures: c.maxFeatures,
		Workers:     c.workers,
	}
	if c.verbose {
		opts.Logger = c.logger
		if opts.Logger == nil {
			opts.Logger = DefaultLogger()
		}
	}
	t, err := Grow(ctx, ds, rand.New(rand.NewSource(seed)).Int63(), opts)
	if err != nil {
		return errors.Wrapf(err, "fitting decision tree")
	}
	t.FeatureLabels = c.featureLabels
	c.lock.Lock()
	defer c.lock.Unlock()
	c.tree = t
	c.numFeatures = ds.NumFeatures()
	c.minFeatures = c.numFeatures
	return nil
}

// Fitted returns whether the classifier has a tree to predict with
func (c *DecisionTreeClassifier) Fitted() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.tree != nil
}

// Tree returns the tree of the classifier, nil if unfit
func (c *DecisionTreeClassifier) Tree() *tree.Tree {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.tree
}

/*
Predict takes a context and a sample matrix and returns the label predicted
for every row. It fails with a Configuration error if the classifier is
unfit, and with an EmptyInput, ShapeMismatch or InvalidInput error if the
matrix is empty, its rows do not have the number of features the tree was
fit with, or have unsupported values.
*/
func (c *DecisionTreeClassifier) Predict(ctx context.Context, X [][]feature.Value) ([]feature.Value, error) {
	c.lock.RLock()
	t, numFeatures, minFeatures := c.tree, c.numFeatures, c.minFeatures
	c.lock.RUnlock()
	if t == nil {
		return nil, errors.Errorf(errors.Configuration, "predicting with an unfit decision tree classifier")
	}
	n, err := dataset.ValidateMatrix(X)
	if err != nil {
		return nil, err
	}
	if numFeatures > 0 && n != numFeatures {
		return nil, errors.Errorf(errors.ShapeMismatch, "rows have %d features, the tree was fit with %d", n, numFeatures)
	}
	if n < minFeatures {
		return nil, errors.Errorf(errors.ShapeMismatch, "rows have %d features, the tree asks about column %d", n, minFeatures-1)
	}
	nX, err := dataset.NormalizeMatrix(X)
	if err != nil {
		return nil, err
	}
	predictions := make([]feature.Value, 0, len(nX))
	for i, row := range nX {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := t.Predict(row)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting row %d", i)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// PredictOne returns the label predicted for a single row
func (c *DecisionTreeClassifier) PredictOne(row []feature.Value) (feature.Value, error) {
	predictions, err := c.Predict(context.Background(), [][]feature.Value{row})
	if err != nil {
		return nil, err
	}
	return predictions[0], nil
}

// ToJSON returns the checkpoint of a fit classifier, or a Configuration
// error if the classifier is unfit.
func (c *DecisionTreeClassifier) ToJSON() (*Checkpoint, error) {
	c.lock.RLock()
	t, numFeatures := c.tree, c.numFeatures
	c.lock.RUnlock()
	if t == nil {
		return nil, errors.Errorf(errors.Configuration, "cannot checkpoint an unfit decision tree classifier")
	}
	cp, err := tjson.NewCheckpoint(t)
	if err != nil {
		return nil, err
	}
	cp.FeatureLabels = c.featureLabels
	cp.Verbose = c.verbose
	cp.RandomState = c.randomState
	cp.MaxFeatures = c.maxFeatures
	cp.NumFeatures = numFeatures
	return cp, nil
}

/*
FromJSON takes a checkpoint and restores the classifier from it, replacing
its options and tree. It returns an error, leaving the classifier as it
was, if the checkpoint holds no valid tree.
*/
func (c *DecisionTreeClassifier) FromJSON(cp *Checkpoint) error {
	if cp == nil {
		return errors.Errorf(errors.InvalidInput, "restoring decision tree classifier from nil checkpoint")
	}
	t, err := cp.DecodeTree()
	if err != nil {
		return errors.Wrapf(errors.Errorf(errors.InvalidInput, "%v", err), "restoring decision tree classifier")
	}
	minFeatures := 0
	err = t.Traverse(context.Background(), false, func(_ context.Context, n *tree.Node) error {
		if n.IsLeaf() {
			return nil
		}
		if cp.NumFeatures > 0 && n.Question.Column >= cp.NumFeatures {
			return errors.Errorf(errors.InvalidInput, "question on column %d of a tree with %d features", n.Question.Column, cp.NumFeatures)
		}
		if n.Question.Column >= minFeatures {
			minFeatures = n.Question.Column + 1
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "restoring decision tree classifier")
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.featureLabels = cp.FeatureLabels
	c.verbose = cp.Verbose
	c.randomState = nil
	if cp.RandomState != nil {
		rs := *cp.RandomState
		c.randomState = &rs
	}
	c.maxFeatures = cp.MaxFeatures
	c.tree = t
	c.numFeatures = cp.NumFeatures
	c.minFeatures = minFeatures
	return nil
}

// MarshalJSON encodes the checkpoint of the classifier as JSON
func (c *DecisionTreeClassifier) MarshalJSON() ([]byte, error) {
	cp, err := c.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cp)
}

// UnmarshalJSON restores the classifier from a JSON checkpoint
func (c *DecisionTreeClassifier) UnmarshalJSON(data []byte) error {
	cp := &Checkpoint{}
	err := json.Unmarshal(data, cp)
	if err != nil {
		return errors.Errorf(errors.InvalidInput, "decoding decision tree classifier: %v", err)
	}
	return c.FromJSON(cp)
}

/*
PrintTree writes the tree of the classifier onto the given writer. It
returns a Configuration error if the classifier is unfit or has no feature
labels to render the questions of the tree with.
*/
func (c *DecisionTreeClassifier) PrintTree(w io.Writer) error {
	t := c.Tree()
	if t == nil {
		return errors.Errorf(errors.Configuration, "cannot print the tree of an unfit decision tree classifier")
	}
	s, err := t.Render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func (c *DecisionTreeClassifier) String() string {
	t := c.Tree()
	if t == nil {
		return "DecisionTreeClassifier{unfit}"
	}
	return fmt.Sprintf("DecisionTreeClassifier{depth: %d, leaves: %d}\n%v", t.Depth(), len(t.Leaves()), t)
}
