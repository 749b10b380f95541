package ensemble

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pbanos/grove/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSizeResolve(t *testing.T) {
	n, err := SampleFraction(1).Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = SampleFraction(0.5).Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = SampleFraction(0.01).Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = SampleCount(3).Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = SampleCount(6).Resolve(5)
	assert.True(t, errors.Is(err, errors.Validation))
	_, err = SampleFraction(2).Resolve(5)
	assert.True(t, errors.Is(err, errors.Validation))
}

func TestIndicesWithoutReplacementAreDistinct(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		indices, err := Indices(r, 10, SampleCount(7), false)
		require.NoError(t, err)
		require.Len(t, indices, 7)
		seen := make(map[int]bool)
		for _, idx := range indices {
			assert.True(t, idx >= 0 && idx < 10)
			assert.False(t, seen[idx], "index %d drawn twice", idx)
			seen[idx] = true
		}
	}
	indices, err := Indices(r, 10, SampleFraction(1), false)
	require.NoError(t, err)
	sort.Ints(indices)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, indices)
}

func TestIndicesWithReplacement(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	indices, err := Indices(r, 10, SampleFraction(1), true)
	require.NoError(t, err)
	require.Len(t, indices, 10)
	seen := make(map[int]bool)
	for _, idx := range indices {
		assert.True(t, idx >= 0 && idx < 10)
		seen[idx] = true
	}
	// drawing 10 out of 10 with replacement repeats some with seed 2
	assert.True(t, len(seen) < 10)
}

func TestIndicesAreReproducible(t *testing.T) {
	a, err := Indices(rand.New(rand.NewSource(3)), 100, SampleCount(10), false)
	require.NoError(t, err)
	b, err := Indices(rand.New(rand.NewSource(3)), 100, SampleCount(10), false)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Indices(rand.New(rand.NewSource(3)), 0, SampleCount(1), false)
	assert.True(t, errors.Is(err, errors.EmptyInput))
}
