package mongodataset

import (
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"
)

func fruitCollection(t *testing.T) *Collection {
	s, err := dataset.NewSchema([]feature.Feature{
		feature.NewDiscreteFeature("color", []string{"Green", "Yellow", "Red"}),
		feature.NewContinuousFeature("diameter"),
		feature.NewDiscreteFeature("fruit", nil),
	}, "fruit")
	require.NoError(t, err)
	c, err := New(nil, "", s)
	require.NoError(t, err)
	return c
}

func TestDocumentAndSample(t *testing.T) {
	c := fruitCollection(t)
	assert.Equal(t, DefaultCollection, c.name)
	doc, err := c.document([]feature.Value{"Red", nil}, "Grape")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"color": "Red", "fruit": "Grape"}, doc)

	_, err = c.document([]feature.Value{"Blue", 1.0}, "Grape")
	assert.True(t, errors.Is(err, errors.InvalidInput))

	row, label, err := c.sample(bson.M{"_id": bson.NewObjectId(), "color": "Green", "diameter": 3, "fruit": "Apple"})
	require.NoError(t, err)
	assert.Equal(t, []feature.Value{"Green", 3.0}, row)
	assert.Equal(t, "Apple", label)

	_, _, err = c.sample(bson.M{"color": "Green", "diameter": "big", "fruit": "Apple"})
	assert.True(t, errors.Is(err, errors.InvalidInput))
	_, _, err = c.sample(bson.M{"color": []string{"Green"}, "fruit": "Apple"})
	assert.True(t, errors.Is(err, errors.InvalidInput))
}

func TestFilter(t *testing.T) {
	c := fruitCollection(t)
	f, err := c.Filter(feature.NewQuestion(nil, 1, 3.0), true)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"diameter": bson.M{"$gte": 3.0}}, f)

	f, err = c.Filter(feature.NewQuestion(nil, 0, "Red"), false)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$nor": []bson.M{{"color": bson.M{"$eq": "Red"}}}}, f)

	_, err = c.Filter(feature.NewQuestion(nil, 2, "Apple"), true)
	assert.True(t, errors.Is(err, errors.InvalidInput))
}

func TestNewErrors(t *testing.T) {
	for _, name := range []string{"_id", "a.b", "$c"} {
		s, err := dataset.NewSchema([]feature.Feature{feature.NewContinuousFeature(name), feature.NewDiscreteFeature("fruit", nil)}, "")
		require.NoError(t, err)
		_, err = New(nil, "", s)
		assert.True(t, errors.Is(err, errors.Configuration), name)
	}
}
