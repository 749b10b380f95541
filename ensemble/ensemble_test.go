package ensemble

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorizer predicts the label it saw for a row, or the first label
// it was fit with for rows it never saw.
type memorizer struct {
	labels map[string]feature.Value
	first  feature.Value
}

func (m *memorizer) Fit(ctx context.Context, X [][]feature.Value, y []feature.Value) error {
	m.labels = make(map[string]feature.Value)
	for i, row := range X {
		m.labels[fmt.Sprint(row)] = y[i]
	}
	m.first = y[0]
	return nil
}

func (m *memorizer) Predict(ctx context.Context, X [][]feature.Value) ([]feature.Value, error) {
	result := make([]feature.Value, 0, len(X))
	for _, row := range X {
		l, ok := m.labels[fmt.Sprint(row)]
		if !ok {
			l = m.first
		}
		result = append(result, l)
	}
	return result, nil
}

type failing struct{}

func (failing) Fit(context.Context, [][]feature.Value, []feature.Value) error {
	return errors.New("cannot fit")
}

func (failing) Predict(context.Context, [][]feature.Value) ([]feature.Value, error) {
	return nil, errors.New("cannot predict")
}

func seed(s int64) *int64 {
	return &s
}

func syntheticSet(n int, s int64) ([][]feature.Value, []feature.Value) {
	r := rand.New(rand.NewSource(s))
	X := make([][]feature.Value, 0, n)
	y := make([]feature.Value, 0, n)
	for i := 0; i < n; i++ {
		a, b := r.Float64()*10, r.Float64()*10
		color := []string{"Red", "Green", "Blue"}[r.Intn(3)]
		X = append(X, []feature.Value{a, b, color})
		label := "low"
		if a+b > 10 {
			label = "high"
		}
		if color == "Blue" && a > 8 {
			label = "blue"
		}
		y = append(y, label)
	}
	return X, y
}

func TestBaggingConstantLabels(t *testing.T) {
	ctx := context.Background()
	bc, err := NewBaggingClassifier(BaggingOptions{
		MaxSamples:  SampleFraction(1.0),
		Bootstrap:   true,
		RandomState: seed(1),
		Factory:     func(int64) Estimator { return &memorizer{} },
	})
	require.NoError(t, err)
	X := [][]feature.Value{{1}, {2}, {3}, {4}, {5}}
	y := []feature.Value{1, 1, 1, 1, 1}
	require.NoError(t, bc.Fit(ctx, X, y))
	p, err := bc.Predict(ctx, X)
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{1, 1, 1, 1, 1}, p)
	assert.Len(t, bc.Estimators(), 10)
}

func TestBaggingWithTrees(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(200, 1)
	bc, err := NewBaggingClassifier(BaggingOptions{
		NumEstimators: 5,
		Bootstrap:     true,
		RandomState:   seed(2),
		Workers:       3,
	})
	require.NoError(t, err)
	require.NoError(t, bc.Fit(ctx, X, y))
	rate, failed, err := grove.Test(ctx, bc, X, y)
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.True(t, rate > 0.9, "training accuracy %v", rate)
}

func TestBaggingTreesConsiderEveryFeature(t *testing.T) {
	ctx := context.Background()
	// the second column carries no information, so a member drawing
	// it instead of the first would not split
	X := [][]feature.Value{{1, 0}, {2, 0}, {3, 0}, {4, 0}}
	y := []feature.Value{"a", "a", "b", "b"}
	bc, err := NewBaggingClassifier(BaggingOptions{NumEstimators: 8, RandomState: seed(3)})
	require.NoError(t, err)
	require.NoError(t, bc.Fit(ctx, X, y))
	for i, e := range bc.Estimators() {
		c := e.(*grove.DecisionTreeClassifier)
		root := c.Tree().Root
		require.False(t, root.IsLeaf(), "member %d", i)
		assert.Equal(t, 0, root.Question.Column, "member %d", i)
		assert.Equal(t, 3.0, root.Question.Value, "member %d", i)
		cp, err := c.ToJSON()
		require.NoError(t, err)
		assert.Nil(t, cp.RandomState, "member %d", i)
	}
}

func TestBaggingIsDeterministic(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(150, 3)
	testX, _ := syntheticSet(50, 4)
	var results [][]feature.Value
	for _, workers := range []int{1, 4} {
		bc, err := NewBaggingClassifier(BaggingOptions{NumEstimators: 7, Bootstrap: true, RandomState: seed(5), Workers: workers})
		require.NoError(t, err)
		require.NoError(t, bc.Fit(ctx, X, y))
		p, err := bc.Predict(ctx, testX)
		require.NoError(t, err)
		results = append(results, p)
		var trees []string
		for _, e := range bc.Estimators() {
			trees = append(trees, e.(*grove.DecisionTreeClassifier).Tree().String())
		}
		results = append(results, []feature.Value{fmt.Sprint(trees)})
	}
	assert.Equal(t, results[0], results[2])
	assert.Equal(t, results[1], results[3])
}

func TestBaggingValidation(t *testing.T) {
	for _, opts := range []BaggingOptions{
		{NumEstimators: -1},
		{Workers: -1},
		{MaxSamples: SampleFraction(1.5)},
		{MaxSamples: SampleFraction(-0.5)},
		{MaxSamples: SampleFraction(0)},
		{MaxSamples: SampleCount(0)},
	} {
		_, err := NewBaggingClassifier(opts)
		assert.True(t, errors.Is(err, errors.Validation), "options %+v: got %v", opts, err)
	}

	bc, err := NewBaggingClassifier(BaggingOptions{MaxSamples: SampleCount(6)})
	require.NoError(t, err)
	err = bc.Fit(context.Background(), [][]feature.Value{{1}, {2}}, []feature.Value{1, 2})
	assert.True(t, errors.Is(err, errors.Validation), "got %v", err)
	assert.Nil(t, bc.Estimators())

	err = bc.Fit(context.Background(), [][]feature.Value{{1}, {2}}, []feature.Value{1})
	assert.True(t, errors.Is(err, errors.ShapeMismatch), "got %v", err)
}

func TestBaggingMemberErrorsAreCombined(t *testing.T) {
	bc, err := NewBaggingClassifier(BaggingOptions{
		NumEstimators: 3,
		Workers:       2,
		Factory:       func(int64) Estimator { return failing{} },
	})
	require.NoError(t, err)
	err = bc.Fit(context.Background(), [][]feature.Value{{1}, {2}}, []feature.Value{1, 2})
	require.Error(t, err)
	errs, ok := err.(errors.Errors)
	require.True(t, ok)
	assert.Equal(t, 3, errs.Len())
	assert.Nil(t, bc.Estimators())
}

func TestBaggingUnfit(t *testing.T) {
	bc, err := NewBaggingClassifier(BaggingOptions{})
	require.NoError(t, err)
	_, err = bc.Predict(context.Background(), [][]feature.Value{{1}})
	assert.True(t, errors.Is(err, errors.Configuration))
}

func TestBaggingCheckpoint(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(120, 11)
	bc, err := NewBaggingClassifier(BaggingOptions{NumEstimators: 3, Bootstrap: true, RandomState: seed(12)})
	require.NoError(t, err)
	_, err = bc.ToJSON()
	assert.True(t, errors.Is(err, errors.Configuration))
	require.NoError(t, bc.Fit(ctx, X, y))

	cp, err := bc.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, 3, cp.NumEstimators)
	assert.Equal(t, 0, cp.MaxFeatures)
	rf := &RandomForest{}
	require.NoError(t, rf.FromJSON(cp))
	expected, err := bc.Predict(ctx, X)
	require.NoError(t, err)
	actual, err := rf.Predict(ctx, X)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	custom, err := NewBaggingClassifier(BaggingOptions{NumEstimators: 2, Factory: func(int64) Estimator { return &memorizer{} }})
	require.NoError(t, err)
	require.NoError(t, custom.Fit(ctx, X, y))
	_, err = custom.ToJSON()
	assert.True(t, errors.Is(err, errors.Configuration))
}

func TestRandomForest(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(200, 6)
	rf, err := NewRandomForest(ForestOptions{
		NumEstimators: 6,
		Bootstrap:     true,
		RandomState:   seed(7),
		Workers:       2,
		TreeOptions:   []grove.Option{grove.WithFeatureLabels([]string{"a", "b", "color"})},
	})
	require.NoError(t, err)
	require.NoError(t, rf.Fit(ctx, X, y))
	trees := rf.Trees()
	require.Len(t, trees, 6)

	cp, err := rf.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, 2, cp.MaxFeatures)
	assert.Equal(t, 6, cp.NumEstimators)
	assert.Equal(t, 2, cp.Estimators[0].MaxFeatures)
	assert.Equal(t, []string{"a", "b", "color"}, cp.Estimators[0].FeatureLabels)

	rate, _, err := grove.Test(ctx, rf, X, y)
	require.NoError(t, err)
	assert.True(t, rate > 0.8, "training accuracy %v", rate)
}

func TestRandomForestRoundTrip(t *testing.T) {
	ctx := context.Background()
	X, y := syntheticSet(150, 8)
	rf, err := NewRandomForest(ForestOptions{NumEstimators: 4, Bootstrap: true, RandomState: seed(9)})
	require.NoError(t, err)
	require.NoError(t, rf.Fit(ctx, X, y))

	data, err := json.Marshal(rf)
	require.NoError(t, err)
	restored := &RandomForest{}
	require.NoError(t, json.Unmarshal(data, restored))

	testX, _ := syntheticSet(60, 10)
	expected, err := rf.Predict(ctx, testX)
	require.NoError(t, err)
	actual, err := restored.Predict(ctx, testX)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestRandomForestErrors(t *testing.T) {
	_, err := NewRandomForest(ForestOptions{MaxFeatures: -1})
	assert.True(t, errors.Is(err, errors.Validation))

	rf, err := NewRandomForest(ForestOptions{})
	require.NoError(t, err)
	_, err = rf.Predict(context.Background(), [][]feature.Value{{1}})
	assert.True(t, errors.Is(err, errors.Configuration))
	_, err = rf.ToJSON()
	assert.True(t, errors.Is(err, errors.Configuration))
	assert.Error(t, rf.FromJSON(&ForestCheckpoint{}))
}

func TestDefaultMaxFeatures(t *testing.T) {
	assert.Equal(t, 1, DefaultMaxFeatures(1))
	assert.Equal(t, 2, DefaultMaxFeatures(3))
	assert.Equal(t, 2, DefaultMaxFeatures(4))
	assert.Equal(t, 3, DefaultMaxFeatures(5))
}
