package grove

import (
	"context"
	"math/rand"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

// gains below this are considered float noise, not an improvement
const gainTolerance = 1e-12

/*
Split represents the best question found to split a dataset, the
information gain it achieves and the two resulting datasets. A Split
without a Question means no question improves the impurity of the
dataset.
*/
type Split struct {
	Gain     float64
	Question *feature.Question
	True     *dataset.Dataset
	False    *dataset.Dataset
}

// SplitOptions configures the search of FindBestSplit
type SplitOptions struct {
	// Rand, when set, is used to draw the columns
	// to consider. Otherwise every column is
	// considered in order.
	Rand *rand.Rand
	// MaxFeatures is the number of columns drawn
	// (with replacement) when Rand is set. Zero means
	// as many as columns the dataset has.
	MaxFeatures int
	// Logger, when set, gets a line for every
	// candidate question evaluated.
	Logger Logger
}

/*
FindBestSplit takes a context, a dataset and SplitOptions and returns the
split that maximizes the information gain over the Gini impurity of the
dataset, or an error.

Candidate questions are built for every distinct value of every candidate
column, in the order values first appear. Questions that leave either side
empty are skipped. Among candidates with the same gain the last one
evaluated wins.

The context is checked between columns, so a cancelled search returns the
context error.
*/
func FindBestSplit(ctx context.Context, ds *dataset.Dataset, opts SplitOptions) (*Split, error) {
	uncertainty, err := ds.Gini()
	if err != nil {
		return nil, err
	}
	best := &Split{}
	for _, column := range candidateColumns(ds.NumFeatures(), opts) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, v := range ds.ColumnValues(column) {
			q := feature.NewQuestion(ds.FeatureLabels, column, v)
			trueSet, falseSet := ds.Partition(q)
			if trueSet.Count() == 0 || falseSet.Count() == 0 {
				continue
			}
			gain, err := dataset.InfoGain(trueSet.Labels(), falseSet.Labels(), uncertainty)
			if err != nil {
				return nil, err
			}
			if opts.Logger != nil {
				opts.Logger.Logf("%v: gain %.6f (%d/%d samples)", q, gain, trueSet.Count(), falseSet.Count())
			}
			if gain >= best.Gain {
				best = &Split{Gain: gain, Question: q, True: trueSet, False: falseSet}
			}
		}
	}
	if best.Gain <= gainTolerance {
		return &Split{}, nil
	}
	return best, nil
}

func candidateColumns(numFeatures int, opts SplitOptions) []int {
	if opts.Rand == nil {
		columns := make([]int, numFeatures)
		for i := range columns {
			columns[i] = i
		}
		return columns
	}
	n := opts.MaxFeatures
	if n <= 0 {
		n = numFeatures
	}
	columns := make([]int, n)
	for i := range columns {
		columns[i] = opts.Rand.Intn(numFeatures)
	}
	return columns
}
