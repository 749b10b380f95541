package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbanos/grove/config"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fruitMetadata = `features:
  color:
    - Green
    - Yellow
    - Red
  diameter: continuous
  fruit: discrete
`

const fruitCSV = `color,diameter,fruit
Green,3,Apple
Yellow,3,Apple
Red,1,Grape
Red,1,Grape
Yellow,3,Lemon
`

func fixtures(t *testing.T) (string, *rootCmdConfig) {
	dir, err := ioutil.TempDir("", "grove-cmd")
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "fruit.yml"), []byte(fruitMetadata), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "fruit.csv"), []byte(fruitCSV), 0644))
	return dir, &rootCmdConfig{metadataInput: filepath.Join(dir, "fruit.yml")}
}

func TestSourceKindOf(t *testing.T) {
	assert.Equal(t, csvSource, sourceKindOf(""))
	assert.Equal(t, csvSource, sourceKindOf("fruit.csv"))
	assert.Equal(t, sqlSource, sourceKindOf("fruit.db"))
	assert.Equal(t, sqlSource, sourceKindOf("postgresql://localhost/fruits"))
	assert.Equal(t, sqlSource, sourceKindOf("postgres://localhost/fruits"))
	assert.Equal(t, mongoSource, sourceKindOf("mongodb://localhost/fruits"))
	assert.True(t, isRedisURL("redis://localhost:6379/0"))
	assert.False(t, isRedisURL("model.json"))
}

func TestSplit(t *testing.T) {
	var X [][]feature.Value
	var y []feature.Value
	for i := 0; i < 1000; i++ {
		X = append(X, []feature.Value{float64(i)})
		y = append(y, i%2 == 0)
	}
	oX, oY, sX, sY := split(rand.New(rand.NewSource(1)), 20, X, y)
	assert.Equal(t, 1000, len(oX)+len(sX))
	assert.Equal(t, len(oX), len(oY))
	assert.Equal(t, len(sX), len(sY))
	assert.InDelta(t, 200, len(sX), 60)

	oX2, _, _, _ := split(rand.New(rand.NewSource(1)), 20, X, y)
	assert.Equal(t, oX, oX2)
}

func TestGrowAndPrint(t *testing.T) {
	ctx := context.Background()
	dir, rcc := fixtures(t)
	defer os.RemoveAll(dir)
	schema, err := rcc.Schema()
	require.NoError(t, err)
	X, y, err := rcc.readSamples(ctx, filepath.Join(dir, "fruit.csv"), "", schema)
	require.NoError(t, err)

	gcc := &growCmdConfig{rootCmdConfig: rcc}
	for _, kind := range []string{config.TreeModel, config.ForestModel, config.BaggingModel} {
		rs := int64(1)
		cfg := config.Default()
		cfg.Model = kind
		cfg.Ensemble.NumEstimators = 3
		cfg.Ensemble.RandomState = &rs
		m, err := gcc.grow(ctx, cfg, schema, X, y)
		require.NoError(t, err, kind)

		path := filepath.Join(dir, kind+".json")
		location, err := rcc.saveModel(ctx, path, m)
		require.NoError(t, err)
		assert.Equal(t, path, location)
		loaded, err := rcc.loadModel(ctx, path, "")
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, printTrees(&buf, loaded))
		if kind == config.TreeModel {
			assert.Equal(t, store.TreeKind, loaded.Kind)
			assert.True(t, strings.HasPrefix(buf.String(), "{ Is diameter >= 3 }"), buf.String())
		} else {
			assert.Equal(t, store.ForestKind, loaded.Kind)
			assert.Contains(t, buf.String(), "Tree 2:")
		}
	}
}

func TestGrowCommandFlags(t *testing.T) {
	dir, rcc := fixtures(t)
	defer os.RemoveAll(dir)
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, ioutil.WriteFile(cfgPath, []byte("model: forest\nensemble:\n  n_estimators: 4\n"), 0644))

	cmd := growCmd(rcc)
	require.NoError(t, cmd.ParseFlags([]string{"-c", cfgPath, "--max-depth", "2", "--random-state", "5"}))
	gcc := &growCmdConfig{rootCmdConfig: rcc}
	gcc.configInput = cfgPath
	gcc.overrides.Tree.MaxDepth = 2
	gcc.randomState = 5
	cfg, err := gcc.Config(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, config.ForestModel, cfg.Model)
	assert.Equal(t, 4, cfg.Ensemble.NumEstimators)
	assert.Equal(t, 2, cfg.Tree.MaxDepth)
	require.NotNil(t, cfg.Ensemble.RandomState)
	assert.Equal(t, int64(5), *cfg.Ensemble.RandomState)

	gcc.overrides.Model = "bush"
	require.NoError(t, cmd.ParseFlags([]string{"-k", "bush"}))
	_, err = gcc.Config(cmd.Flags())
	assert.Error(t, err)
}

func TestMissingMetadata(t *testing.T) {
	assert.Error(t, (&rootCmdConfig{}).validateMetadata())
	assert.Error(t, (&testCmdConfig{rootCmdConfig: &rootCmdConfig{}}).Validate())
	assert.Error(t, (&splitCmdConfig{rootCmdConfig: &rootCmdConfig{metadataInput: "m.yml"}, splitProbability: 20}).Validate())
	assert.Error(t, (&setCmdConfig{rootCmdConfig: &rootCmdConfig{metadataInput: "m.yml"}, setInput: "a.csv", setOutput: "a.csv"}).Validate())
}

func TestCLIParser(t *testing.T) {
	names := map[string]bool{}
	for _, c := range cliParser().Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"version", "grow", "test", "predict", "tree", "split", "set"} {
		assert.True(t, names[name], name)
	}
	assert.Equal(t, "grove v0.1.0", version())
}
