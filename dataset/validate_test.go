package dataset

import (
	"math"
	"testing"

	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRowsRejectsNonFiniteNumbers(t *testing.T) {
	cases := []struct {
		name string
		X    [][]feature.Value
		y    []feature.Value
	}{
		{"NaN value", [][]feature.Value{{1.0}, {math.NaN()}}, []feature.Value{"a", "b"}},
		{"infinite value", [][]feature.Value{{1.0}, {math.Inf(1)}}, []feature.Value{"a", "b"}},
		{"negative infinite value", [][]feature.Value{{math.Inf(-1)}, {2.0}}, []feature.Value{"a", "b"}},
		{"NaN label", [][]feature.Value{{1.0}, {2.0}}, []feature.Value{math.NaN(), math.NaN()}},
		{"infinite label", [][]feature.Value{{1.0}, {2.0}}, []feature.Value{0, math.Inf(1)}},
	}
	for _, c := range cases {
		_, err := ValidateRows(c.X, c.y)
		require.Error(t, err, c.name)
		assert.True(t, errors.Is(err, errors.InvalidInput), "%s: got %v", c.name, err)

		_, err = New(c.X, c.y)
		assert.True(t, errors.Is(err, errors.InvalidInput), "%s: got %v", c.name, err)
	}
}

func TestNormalizeMatrixRejectsNonFiniteNumbers(t *testing.T) {
	_, err := NormalizeMatrix([][]feature.Value{{1, math.NaN()}})
	assert.True(t, errors.Is(err, errors.InvalidInput))

	_, err = NormalizeLabels([]feature.Value{math.Inf(-1)})
	assert.True(t, errors.Is(err, errors.InvalidInput))

	nX, err := NormalizeMatrix([][]feature.Value{{1, "Red"}})
	require.NoError(t, err)
	assert.Equal(t, [][]feature.Value{{1.0, "Red"}}, nX)
}
