package grove

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fruitX = [][]feature.Value{
		{"Green", 3},
		{"Yellow", 3},
		{"Red", 1},
		{"Red", 1},
		{"Yellow", 3},
	}
	fruitY      = []feature.Value{"Apple", "Apple", "Grape", "Grape", "Lemon"}
	fruitLabels = []string{"color", "diameter", "label"}
)

type recordingLogger struct {
	sync.Mutex
	lines []string
}

func (rl *recordingLogger) Logf(format string, args ...interface{}) {
	rl.Lock()
	defer rl.Unlock()
	rl.lines = append(rl.lines, fmt.Sprintf(format, args...))
}

// syntheticSet returns rows with two numeric and two discrete features,
// labelled by a rule with some noise.
func syntheticSet(n int, seed int64) ([][]feature.Value, []feature.Value) {
	r := rand.New(rand.NewSource(seed))
	colors := []string{"Red", "Green", "Blue"}
	X := make([][]feature.Value, 0, n)
	y := make([]feature.Value, 0, n)
	for i := 0; i < n; i++ {
		a := float64(r.Intn(10))
		b := float64(r.Intn(5))
		color := colors[r.Intn(len(colors))]
		ripe := r.Intn(2) == 0
		X = append(X, []feature.Value{a, b, color, ripe})
		var label string
		switch {
		case a > 6 && color != "Blue":
			label = "high"
		case ripe && b >= 2:
			label = "ripe"
		default:
			label = "low"
		}
		if r.Intn(10) == 0 {
			label = "noise"
		}
		y = append(y, label)
	}
	return X, y
}

func TestFruitScenarios(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier(WithFeatureLabels(fruitLabels))
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))

	p, err := c.Predict(ctx, [][]feature.Value{{"Green", 3}})
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{"Apple"}, p)

	p, err = c.Predict(ctx, [][]feature.Value{{"Purple", 2}})
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{"Grape"}, p)

	assert.Equal(t, "Is diameter >= 3", c.Tree().Root.Question.String())
}

func TestNumericScenario(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier()
	require.NoError(t, c.Fit(ctx, [][]feature.Value{{0, 0}, {1, 1}}, []feature.Value{0, 1}))

	p, err := c.Predict(ctx, [][]feature.Value{{2, 2}})
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{1.0}, p)

	p, err = c.Predict(ctx, [][]feature.Value{{-2, -1}})
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{0.0}, p)

	one, err := c.PredictOne([]feature.Value{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, one)
}

func TestFitValidatesInput(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier()
	err := c.Fit(ctx, [][]feature.Value{{1}, {2}}, []feature.Value{1})
	assert.True(t, errors.Is(err, errors.ShapeMismatch), "got %v", err)
	err = c.Fit(ctx, nil, nil)
	assert.True(t, errors.Is(err, errors.EmptyInput), "got %v", err)
	err = c.Fit(ctx, [][]feature.Value{{1, 2}, {1}}, []feature.Value{1, 2})
	assert.True(t, errors.Is(err, errors.ShapeMismatch), "got %v", err)
	assert.False(t, c.Fitted())
}

func TestFitValidatesOptions(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*DecisionTreeClassifier{
		NewDecisionTreeClassifier(WithMaxFeatures(-1)),
		NewDecisionTreeClassifier(WithWorkers(-2)),
		NewDecisionTreeClassifier(WithPruningStrategy(PruningStrategy{MaxDepth: -1})),
	} {
		err := c.Fit(ctx, fruitX, fruitY)
		assert.True(t, errors.Is(err, errors.Validation), "got %v", err)
	}
}

func TestFailedFitKeepsPreviousTree(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier(WithFeatureLabels(fruitLabels))
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	before := c.Tree()

	err := c.Fit(ctx, [][]feature.Value{{"Red", 1}}, []feature.Value{"Grape", "Apple"})
	require.Error(t, err)
	assert.True(t, before == c.Tree())
	p, err := c.PredictOne([]feature.Value{"Green", 3})
	require.NoError(t, err)
	assert.Equal(t, "Apple", p)
}

func TestRefitReplacesTree(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier()
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	require.NoError(t, c.Fit(ctx, [][]feature.Value{{1}, {2}}, []feature.Value{"a", "a"}))
	assert.True(t, c.Tree().Root.IsLeaf())
	p, err := c.PredictOne([]feature.Value{5})
	require.NoError(t, err)
	assert.Equal(t, "a", p)
}

func TestFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewDecisionTreeClassifier()
	err := c.Fit(ctx, fruitX, fruitY)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.False(t, c.Fitted())
}

func TestPredictUnfit(t *testing.T) {
	c := NewDecisionTreeClassifier()
	_, err := c.Predict(context.Background(), fruitX)
	assert.True(t, errors.Is(err, errors.Configuration))
	_, err = c.ToJSON()
	assert.True(t, errors.Is(err, errors.Configuration))
	assert.True(t, errors.Is(c.PrintTree(&bytes.Buffer{}), errors.Configuration))
}

func TestPredictValidatesInput(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier()
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	_, err := c.Predict(ctx, nil)
	assert.True(t, errors.Is(err, errors.EmptyInput))
	_, err = c.Predict(ctx, [][]feature.Value{{"Red"}})
	assert.True(t, errors.Is(err, errors.ShapeMismatch))
	_, err = c.PredictOne([]feature.Value{"Red", nil})
	assert.True(t, errors.Is(err, errors.InvalidInput))
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		X    [][]feature.Value
		y    []feature.Value
	}{
		{"NaN value", [][]feature.Value{{1.0}, {math.NaN()}}, []feature.Value{0, 1}},
		{"infinite value", [][]feature.Value{{1.0}, {math.Inf(1)}}, []feature.Value{0, 1}},
		{"NaN labels", [][]feature.Value{{1}, {2}}, []feature.Value{math.NaN(), math.NaN()}},
		{"infinite label", [][]feature.Value{{1}, {2}}, []feature.Value{0, math.Inf(-1)}},
	}
	for _, tc := range cases {
		c := NewDecisionTreeClassifier()
		err := c.Fit(ctx, tc.X, tc.y)
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, errors.InvalidInput), "%s: got %v", tc.name, err)
		assert.False(t, c.Fitted(), tc.name)
	}

	c := NewDecisionTreeClassifier()
	require.NoError(t, c.Fit(ctx, [][]feature.Value{{1.0}, {2.0}}, []feature.Value{0, 1}))
	_, err := c.Predict(ctx, [][]feature.Value{{math.NaN()}})
	assert.True(t, errors.Is(err, errors.InvalidInput), "got %v", err)
	_, err = c.PredictOne([]feature.Value{math.Inf(1)})
	assert.True(t, errors.Is(err, errors.InvalidInput), "got %v", err)
	_, _, err = Test(ctx, c, [][]feature.Value{{1.0}}, []feature.Value{math.NaN()})
	assert.True(t, errors.Is(err, errors.InvalidInput), "got %v", err)

	// every fit tree has finite thresholds, so it checkpoints
	_, err = c.ToJSON()
	assert.NoError(t, err)
}

func TestRestoredTreeRejectsNarrowRows(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier()
	require.NoError(t, json.Unmarshal([]byte(`{"tree": {
		"question": {"column": 1, "value": 1},
		"trueBranch": {"prediction": "hi"},
		"falseBranch": {"prediction": "lo"}
	}}`), c))

	_, err := c.Predict(ctx, [][]feature.Value{{5}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ShapeMismatch), "got %v", err)

	p, err := c.PredictOne([]feature.Value{5, 2})
	require.NoError(t, err)
	assert.Equal(t, "hi", p)
	p, err = c.PredictOne([]feature.Value{5, 0, "extra"})
	require.NoError(t, err)
	assert.Equal(t, "lo", p)
}

func TestDeterminism(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(300, 1)
	var trees []string
	for _, workers := range []int{1, 1, 4} {
		c := NewDecisionTreeClassifier(WithRandomState(7), WithWorkers(workers))
		require.NoError(t, c.Fit(ctx, X, y))
		trees = append(trees, c.Tree().String())
	}
	assert.Equal(t, trees[0], trees[1])
	assert.Equal(t, trees[0], trees[2])
}

func TestWorkersDoNotChangeTree(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(300, 2)
	one := NewDecisionTreeClassifier()
	require.NoError(t, one.Fit(ctx, X, y))
	many := NewDecisionTreeClassifier(WithWorkers(8))
	require.NoError(t, many.Fit(ctx, X, y))
	assert.Equal(t, one.Tree().String(), many.Tree().String())
}

// growing stops only when no split improves the impurity of a leaf
func TestLeafPurity(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(200, 3)
	c := NewDecisionTreeClassifier()
	require.NoError(t, c.Fit(ctx, X, y))
	ds, err := dataset.New(X, y)
	require.NoError(t, err)

	var check func(n *tree.Node, ds *dataset.Dataset)
	check = func(n *tree.Node, ds *dataset.Dataset) {
		require.NotZero(t, ds.Count())
		if n.IsLeaf() {
			split, err := FindBestSplit(ctx, ds, SplitOptions{})
			require.NoError(t, err)
			assert.Nil(t, split.Question, "leaf %v has an improving split", n)
			assert.Equal(t, ds.Count(), n.Weight)
			majority, _ := ds.ClassCounts().Majority()
			assert.Equal(t, majority, n.Prediction)
			return
		}
		trueSet, falseSet := ds.Partition(n.Question)
		check(n.True, trueSet)
		check(n.False, falseSet)
	}
	check(c.Tree().Root, ds)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(200, 4)
	c := NewDecisionTreeClassifier(WithFeatureLabels([]string{"a", "b", "color", "ripe"}), WithRandomState(3), WithMaxFeatures(2))
	require.NoError(t, c.Fit(ctx, X, y))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	restored := NewDecisionTreeClassifier()
	require.NoError(t, json.Unmarshal(data, restored))

	testX, _ := syntheticSet(100, 5)
	expected, err := c.Predict(ctx, testX)
	require.NoError(t, err)
	actual, err := restored.Predict(ctx, testX)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	cp, err := restored.ToJSON()
	require.NoError(t, err)
	require.NotNil(t, cp.RandomState)
	assert.Equal(t, int64(3), *cp.RandomState)
	assert.Equal(t, 2, cp.MaxFeatures)
	assert.Equal(t, 4, cp.NumFeatures)
	assert.Equal(t, c.String(), restored.String())
}

func TestFromJSONRejectsInvalidCheckpoints(t *testing.T) {
	c := NewDecisionTreeClassifier()
	assert.Error(t, c.FromJSON(nil))
	assert.Error(t, c.FromJSON(&Checkpoint{}))
	assert.Error(t, json.Unmarshal([]byte(`{"tree": {"question": {"column": 3, "value": 1}, "trueBranch": {"prediction": 1}, "falseBranch": {"prediction": 0}}, "numFeatures": 2}`), c))
	assert.False(t, c.Fitted())
}

func TestPrintTree(t *testing.T) {
	ctx := context.Background()
	c := NewDecisionTreeClassifier(WithFeatureLabels(fruitLabels))
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	var buf bytes.Buffer
	require.NoError(t, c.PrintTree(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "{ Is diameter >= 3 }\n"), buf.String())
	assert.Contains(t, buf.String(), "[false] { Predict Grape (2 samples) }")

	unlabelled := NewDecisionTreeClassifier()
	require.NoError(t, unlabelled.Fit(ctx, fruitX, fruitY))
	assert.True(t, errors.Is(unlabelled.PrintTree(&buf), errors.Configuration))
}

func TestVerboseLogsCandidates(t *testing.T) {
	ctx := context.Background()
	rl := &recordingLogger{}
	c := NewDecisionTreeClassifier(WithFeatureLabels(fruitLabels), WithVerbose(true), WithLogger(rl))
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	require.NotEmpty(t, rl.lines)
	assert.True(t, strings.HasPrefix(rl.lines[0], "Is color == Green: gain"), rl.lines[0])

	quiet := &recordingLogger{}
	c = NewDecisionTreeClassifier(WithLogger(quiet))
	require.NoError(t, c.Fit(ctx, fruitX, fruitY))
	assert.Empty(t, quiet.lines)
}
