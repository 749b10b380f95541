/*
Package config reads the options to train models from YAML documents.

A configuration document looks like:

	model: forest
	tree:
	  max_depth: 8
	  min_samples_split: 4
	  min_samples_leaf: 2
	  min_information_gain: 0.001
	  random_state: 42
	  workers: 4
	ensemble:
	  n_estimators: 50
	  max_samples: 0.8
	  bootstrap: true
	  max_features: 3
	  workers: 4

Every property is optional.
*/
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/ensemble"
	"github.com/pbanos/grove/errors"
	yaml "gopkg.in/yaml.v2"
)

// Kinds of model that can be trained
const (
	TreeModel    = "tree"
	ForestModel  = "forest"
	BaggingModel = "bagging"
)

// Config holds the options to train a model
type Config struct {
	Model    string   `yaml:"model"`
	Tree     Tree     `yaml:"tree"`
	Ensemble Ensemble `yaml:"ensemble"`
}

// Tree holds the options of decision trees, either trained on their
// own or as members of an ensemble
type Tree struct {
	MaxDepth           int     `yaml:"max_depth"`
	MinSamplesSplit    int     `yaml:"min_samples_split"`
	MinSamplesLeaf     int     `yaml:"min_samples_leaf"`
	MinImpurity        float64 `yaml:"min_impurity"`
	MinInformationGain float64 `yaml:"min_information_gain"`
	MaxFeatures        int     `yaml:"max_features"`
	RandomState        *int64  `yaml:"random_state"`
	Workers            int     `yaml:"workers"`
	Verbose            bool    `yaml:"verbose"`
}

// Ensemble holds the options of forests and bagging classifiers
type Ensemble struct {
	NumEstimators int `yaml:"n_estimators"`
	// MaxSamples is a fraction of the training samples when it is
	// not greater than 1 and a count of them otherwise.
	MaxSamples  float64 `yaml:"max_samples"`
	Bootstrap   bool    `yaml:"bootstrap"`
	MaxFeatures int     `yaml:"max_features"`
	RandomState *int64  `yaml:"random_state"`
	Workers     int     `yaml:"workers"`
}

// Default returns the configuration to train a single tree with
// default options
func Default() *Config {
	return &Config{Model: TreeModel}
}

/*
Parse takes a YAML document and returns the configuration it holds or an
error if it cannot be parsed or it is not valid.
*/
func Parse(data []byte) (*Config, error) {
	c := Default()
	err := yaml.UnmarshalStrict(data, c)
	if err != nil {
		return nil, fmt.Errorf("parsing yml config: %v", err)
	}
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

/*
ReadFile takes a filepath string, reads its contents and uses Parse to
return the configuration they hold or an error.
*/
func ReadFile(filepath string) (*Config, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading config yml file %s: %v", filepath, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config yml file %s", filepath)
	}
	return c, nil
}

// Validate returns a Validation error if any option is invalid
func (c *Config) Validate() error {
	switch c.Model {
	case TreeModel, ForestModel, BaggingModel:
	default:
		return errors.Errorf(errors.Validation, "unknown model %q, expected one of %s, %s or %s", c.Model, TreeModel, ForestModel, BaggingModel)
	}
	ps := c.Tree.PruningStrategy()
	err := ps.Validate()
	if err != nil {
		return err
	}
	if c.Tree.MinSamplesLeaf < 0 {
		return errors.Errorf(errors.Validation, "min samples leaf must not be negative, got %d", c.Tree.MinSamplesLeaf)
	}
	if c.Tree.MinInformationGain < 0 {
		return errors.Errorf(errors.Validation, "min information gain must not be negative, got %v", c.Tree.MinInformationGain)
	}
	err = grove.NewDecisionTreeClassifier(c.Tree.Options(nil)...).Validate()
	if err != nil {
		return err
	}
	if c.Ensemble.MaxSamples < 0 {
		return errors.Errorf(errors.Validation, "max samples must not be negative, got %v", c.Ensemble.MaxSamples)
	}
	if c.Ensemble.MaxSamples > 1 && c.Ensemble.MaxSamples != float64(int(c.Ensemble.MaxSamples)) {
		return errors.Errorf(errors.Validation, "max samples greater than 1 must be a count, got %v", c.Ensemble.MaxSamples)
	}
	fo := c.Ensemble.ForestOptions(nil)
	return fo.Validate()
}

/*
PruningStrategy returns the pruning strategy for the tree options: its
limits plus a pruner for the minimum information gain and samples per
leaf, when set.
*/
func (t Tree) PruningStrategy() grove.PruningStrategy {
	ps := grove.PruningStrategy{
		MaxDepth:        t.MaxDepth,
		MinSamplesSplit: t.MinSamplesSplit,
		MinimumImpurity: t.MinImpurity,
	}
	var pruners []grove.Pruner
	if t.MinInformationGain > 0 {
		pruners = append(pruners, grove.FixedInformationGainPruner(t.MinInformationGain))
	}
	if t.MinSamplesLeaf > 0 {
		pruners = append(pruners, grove.MinSamplesLeafPruner(t.MinSamplesLeaf))
	}
	switch len(pruners) {
	case 0:
	case 1:
		ps.Pruner = pruners[0]
	default:
		ps.Pruner = grove.AnyPruner(pruners...)
	}
	return ps
}

/*
Options takes the feature labels of the training data (possibly nil) and
returns the options for a DecisionTreeClassifier. The random state is
left out of them for ensembles to seed their members.
*/
func (t Tree) Options(featureLabels []string) []grove.Option {
	opts := []grove.Option{
		grove.WithPruningStrategy(t.PruningStrategy()),
		grove.WithMaxFeatures(t.MaxFeatures),
		grove.WithWorkers(t.Workers),
		grove.WithVerbose(t.Verbose),
	}
	if featureLabels != nil {
		opts = append(opts, grove.WithFeatureLabels(featureLabels))
	}
	return opts
}

// Classifier returns a DecisionTreeClassifier with the tree options,
// its random state included
func (t Tree) Classifier(featureLabels []string, logger grove.Logger) *grove.DecisionTreeClassifier {
	opts := t.Options(featureLabels)
	if t.RandomState != nil {
		opts = append(opts, grove.WithRandomState(*t.RandomState))
	}
	if logger != nil {
		opts = append(opts, grove.WithLogger(logger))
	}
	return grove.NewDecisionTreeClassifier(opts...)
}

// SampleSize returns the sample size for ensemble members, nil for all
// the training samples
func (e Ensemble) SampleSize() ensemble.SampleSize {
	switch {
	case e.MaxSamples == 0:
		return nil
	case e.MaxSamples <= 1:
		return ensemble.SampleFraction(e.MaxSamples)
	}
	return ensemble.SampleCount(int(e.MaxSamples))
}

// ForestOptions returns the options for a RandomForest whose trees get
// the given options
func (e Ensemble) ForestOptions(treeOptions []grove.Option) ensemble.ForestOptions {
	return ensemble.ForestOptions{
		NumEstimators: e.NumEstimators,
		MaxSamples:    e.SampleSize(),
		Bootstrap:     e.Bootstrap,
		RandomState:   e.RandomState,
		MaxFeatures:   e.MaxFeatures,
		Workers:       e.Workers,
		TreeOptions:   treeOptions,
	}
}

// BaggingOptions returns the options for a BaggingClassifier whose trees
// get the given options
func (e Ensemble) BaggingOptions(treeOptions []grove.Option) ensemble.BaggingOptions {
	return ensemble.BaggingOptions{
		NumEstimators: e.NumEstimators,
		MaxSamples:    e.SampleSize(),
		Bootstrap:     e.Bootstrap,
		RandomState:   e.RandomState,
		Workers:       e.Workers,
		Factory:       ensemble.TreeFactory(treeOptions...),
	}
}
