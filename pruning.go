package grove

import (
	"context"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
)

// PruningStrategy holds the configuration
// for when a node must not be split further
// or at all. Its zero value (with a nil Pruner)
// never stops a split that improves impurity.
type PruningStrategy struct {
	// Pruner is applied to the best split
	// found for a node's dataset to determine
	// if it is worth incorporating into the tree.
	Pruner
	// MaxDepth is the maximum number of decision
	// nodes on any path from the root. Nodes at
	// that depth become leaves. Zero means no limit.
	MaxDepth int
	// MinSamplesSplit is the minimum number of
	// samples a node needs to be split. Zero means
	// no minimum.
	MinSamplesSplit int
	// MinimumImpurity is the maximum Gini impurity
	// for a node that prevents it from being split
	// at all. In other words, nodes whose training
	// dataset has an impurity equal or below this
	// will not be developed.
	MinimumImpurity float64
}

// Validate returns a Validation error if any of the limits is negative
func (ps *PruningStrategy) Validate() error {
	if ps.MaxDepth < 0 {
		return errors.Errorf(errors.Validation, "max depth must not be negative, got %d", ps.MaxDepth)
	}
	if ps.MinSamplesSplit < 0 {
		return errors.Errorf(errors.Validation, "min samples split must not be negative, got %d", ps.MinSamplesSplit)
	}
	if ps.MinimumImpurity < 0 {
		return errors.Errorf(errors.Validation, "minimum impurity must not be negative, got %v", ps.MinimumImpurity)
	}
	return nil
}

// develop returns whether a node at the given depth with
// the given dataset may be split at all
func (ps *PruningStrategy) develop(depth int, ds *dataset.Dataset) (bool, error) {
	if ps.MaxDepth > 0 && depth >= ps.MaxDepth {
		return false, nil
	}
	if ps.MinSamplesSplit > 0 && ds.Count() < ps.MinSamplesSplit {
		return false, nil
	}
	impurity, err := ds.Gini()
	if err != nil {
		return false, err
	}
	return impurity > ps.MinimumImpurity, nil
}

func (ps *PruningStrategy) prune(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
	if ps.Pruner == nil {
		return false, nil
	}
	return ps.Pruner.Prune(ctx, ds, s)
}

/*
Pruner is an interface wrapping the Prune method, that can be used
to decide whether a split is good enough to become part of a tree
or if it must be pruned instead.

The Prune method takes a context, the dataset of a node and the best
split found for it and returns a boolean: true to indicate the split
must be pruned, leaving the node as a leaf, false to allow its adding
to the tree and further development.
*/
type Pruner interface {
	Prune(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error)

/*
Prune takes a context.Context, a dataset and a split and invokes the
PrunerFunc with those parameters to return its boolean result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
	return pf(ctx, ds, s)
}

/*
FixedInformationGainPruner takes an informationGainThreshold float64 value
and returns a Pruner whose Prune method returns whether the informationGainThreshold
is greater or equal to the received split's information gain
*/
func FixedInformationGainPruner(informationGainThreshold float64) Pruner {
	return PrunerFunc(func(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
		return informationGainThreshold >= s.Gain, nil
	})
}

/*
MinSamplesLeafPruner takes a minimum number of samples and returns a
Pruner whose Prune method returns true when either side of the split
has fewer samples than that.
*/
func MinSamplesLeafPruner(minSamples int) Pruner {
	return PrunerFunc(func(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
		return s.True.Count() < minSamples || s.False.Count() < minSamples, nil
	})
}

/*
NoPruner returns a Pruner whose Prune method always returns false, that is,
never prunes.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
		return false, nil
	})
}

/*
AnyPruner takes some pruners and returns a Pruner whose Prune method
returns true as soon as any of them prunes the split.
*/
func AnyPruner(pruners ...Pruner) Pruner {
	return PrunerFunc(func(ctx context.Context, ds *dataset.Dataset, s *Split) (bool, error) {
		for _, p := range pruners {
			prune, err := p.Prune(ctx, ds, s)
			if err != nil || prune {
				return prune, err
			}
		}
		return false, nil
	})
}
