package config

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/grove/ensemble"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forestYML = `
model: forest
tree:
  max_depth: 3
  min_samples_leaf: 2
  min_information_gain: 0.01
ensemble:
  n_estimators: 5
  max_samples: 0.5
  bootstrap: true
  max_features: 1
  random_state: 7
  workers: 2
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(forestYML))
	require.NoError(t, err)
	assert.Equal(t, ForestModel, c.Model)
	assert.Equal(t, 3, c.Tree.MaxDepth)
	assert.Equal(t, 5, c.Ensemble.NumEstimators)
	require.NotNil(t, c.Ensemble.RandomState)
	assert.Equal(t, int64(7), *c.Ensemble.RandomState)
	assert.Equal(t, ensemble.SampleFraction(0.5), c.Ensemble.SampleSize())

	ps := c.Tree.PruningStrategy()
	assert.Equal(t, 3, ps.MaxDepth)
	assert.NotNil(t, ps.Pruner)

	fo := c.Ensemble.ForestOptions(c.Tree.Options(nil))
	assert.Equal(t, 1, fo.MaxFeatures)
	assert.True(t, fo.Bootstrap)
	_, err = ensemble.NewRandomForest(fo)
	assert.NoError(t, err)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Nil(t, c.Ensemble.SampleSize())
	assert.Nil(t, c.Tree.PruningStrategy().Pruner)
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{
		"model: bush",
		"tree:\n  max_depth: -1",
		"tree:\n  min_samples_leaf: -1",
		"tree:\n  min_information_gain: -0.5",
		"tree:\n  max_features: -2",
		"ensemble:\n  max_samples: -1",
		"ensemble:\n  max_samples: 2.5",
		"ensemble:\n  n_estimators: -3",
	} {
		_, err := Parse([]byte(doc))
		assert.True(t, errors.Is(err, errors.Validation), "%q: got %v", doc, err)
	}
	_, err := Parse([]byte("unknown: 1"))
	assert.Error(t, err)
	_, err = Parse([]byte("model: [tree"))
	assert.Error(t, err)
}

func TestSampleSize(t *testing.T) {
	assert.Equal(t, ensemble.SampleCount(20), Ensemble{MaxSamples: 20}.SampleSize())
	assert.Equal(t, ensemble.SampleFraction(1), Ensemble{MaxSamples: 1}.SampleSize())
}

func TestReadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "grove-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte(forestYML), 0644))
	c, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ForestModel, c.Model)

	_, err = ReadFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestTreeClassifier(t *testing.T) {
	rs := int64(1)
	c, err := Parse([]byte("tree:\n  max_depth: 1"))
	require.NoError(t, err)
	c.Tree.RandomState = &rs
	dtc := c.Tree.Classifier([]string{"color", "diameter"}, nil)
	X := [][]feature.Value{{"Green", 3}, {"Yellow", 3}, {"Red", 1}, {"Red", 1}, {"Yellow", 3}}
	y := []feature.Value{"Apple", "Apple", "Grape", "Grape", "Lemon"}
	require.NoError(t, dtc.Fit(context.Background(), X, y))
	assert.Equal(t, 1, dtc.Tree().Depth())

	bo := c.Ensemble.BaggingOptions(c.Tree.Options(nil))
	bc, err := ensemble.NewBaggingClassifier(bo)
	require.NoError(t, err)
	require.NoError(t, bc.Fit(context.Background(), X, y))
}
