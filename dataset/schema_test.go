package dataset

import (
	"testing"

	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fruitFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewDiscreteFeature("color", []string{"Green", "Yellow", "Red"}),
		feature.NewContinuousFeature("diameter"),
		feature.NewDiscreteFeature("fruit", nil),
	}
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(fruitFeatures(), "")
	require.NoError(t, err)
	assert.Equal(t, "fruit", s.Label.Name())
	assert.Equal(t, []string{"color", "diameter"}, s.FeatureLabels())
	assert.Len(t, s.Columns(), 3)

	s, err = NewSchema(fruitFeatures(), "color")
	require.NoError(t, err)
	assert.Equal(t, "color", s.Label.Name())
	assert.Equal(t, []string{"diameter", "fruit"}, s.FeatureLabels())

	_, err = NewSchema(fruitFeatures(), "weight")
	assert.True(t, errors.Is(err, errors.Configuration))
	_, err = NewSchema(fruitFeatures()[:1], "")
	assert.True(t, errors.Is(err, errors.Configuration))
}

func TestSchemaCheck(t *testing.T) {
	s, err := NewSchema(fruitFeatures(), "")
	require.NoError(t, err)
	assert.NoError(t, s.Check([]feature.Value{"Green", 3.0}, "Apple"))
	assert.NoError(t, s.Check([]feature.Value{nil, 3.0}, nil))
	assert.True(t, errors.Is(s.Check([]feature.Value{"Blue", 3.0}, "Apple"), errors.InvalidInput))
	assert.True(t, errors.Is(s.Check([]feature.Value{"Green", "3"}, "Apple"), errors.InvalidInput))
	assert.True(t, errors.Is(s.Check([]feature.Value{"Green"}, "Apple"), errors.ShapeMismatch))
}

func TestParseAndFormat(t *testing.T) {
	v, err := Parse(feature.NewContinuousFeature("d"), "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	v, err = Parse(feature.NewContinuousFeature("d"), UndefinedValue)
	require.NoError(t, err)
	assert.Nil(t, v)
	_, err = Parse(feature.NewBooleanFeature("b"), "maybe")
	assert.True(t, errors.Is(err, errors.InvalidInput))

	assert.Equal(t, UndefinedValue, Format(nil))
	assert.Equal(t, "2.5", Format(2.5))
	assert.Equal(t, "true", Format(true))
}
