package dataset

import (
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

/*
Counts holds the number of occurrences of each label of a set. Labels
lists the distinct labels in the order they were first seen.
*/
type Counts struct {
	Labels []feature.Value
	counts map[feature.Value]int
	total  int
}

// ClassCounts counts the occurrences of each label in a single pass
func ClassCounts(labels []feature.Value) *Counts {
	c := &Counts{counts: make(map[feature.Value]int)}
	for _, l := range labels {
		if _, ok := c.counts[l]; !ok {
			c.Labels = append(c.Labels, l)
		}
		c.counts[l]++
	}
	c.total = len(labels)
	return c
}

// Count returns the occurrences of a label
func (c *Counts) Count(label feature.Value) int {
	return c.counts[label]
}

// Total returns the number of labels counted
func (c *Counts) Total() int {
	return c.total
}

/*
Majority returns the label with the most occurrences and its count. When
several labels share the maximum count, the one seen first wins. It
returns nil and 0 for an empty set.
*/
func (c *Counts) Majority() (feature.Value, int) {
	var majority feature.Value
	max := 0
	for _, l := range c.Labels {
		if n := c.counts[l]; n > max {
			majority, max = l, n
		}
	}
	return majority, max
}

// Gini returns the Gini impurity of the counted labels
func (c *Counts) Gini() (float64, error) {
	if c.total == 0 {
		return 0, errors.Errorf(errors.InvalidInput, "gini impurity of an empty label set is undefined")
	}
	n := float64(c.total)
	impurity := 1.0
	for _, l := range c.Labels {
		p := float64(c.counts[l]) / n
		impurity -= p * p
	}
	return impurity, nil
}

/*
Gini returns the Gini impurity of a set of labels, 1 - Σ p_i² where p_i is
the proportion of the i-th distinct label. It returns an InvalidInput
error for an empty set or one holding NaN or infinite labels.
*/
func Gini(labels []feature.Value) (float64, error) {
	for i, l := range labels {
		if !feature.IsFinite(l) {
			return 0, errors.Errorf(errors.InvalidInput, "label %d is %v, labels must be finite", i, l)
		}
	}
	return ClassCounts(labels).Gini()
}

/*
InfoGain returns the information gain of splitting a set with impurity
parentUncertainty into left and right: the parent uncertainty minus the
impurity of both sides weighted by their share of samples. Empty sides
contribute nothing, but both sides cannot be empty.
*/
func InfoGain(left, right []feature.Value, parentUncertainty float64) (float64, error) {
	total := len(left) + len(right)
	if total == 0 {
		return 0, errors.Errorf(errors.InvalidInput, "information gain of splitting an empty label set is undefined")
	}
	p := float64(len(left)) / float64(total)
	gain := parentUncertainty
	if len(left) > 0 {
		g, err := Gini(left)
		if err != nil {
			return 0, err
		}
		gain -= p * g
	}
	if len(right) > 0 {
		g, err := Gini(right)
		if err != nil {
			return 0, err
		}
		gain -= (1 - p) * g
	}
	return gain, nil
}
