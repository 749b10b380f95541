/*
Package tree defines binary decision trees: their nodes, how they route
rows to a prediction and how they are traversed and rendered.
*/
package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

// Tree represents a decision tree. It is composed of
// the node at its root and the labels for the features
// its questions ask about, if known.
type Tree struct {
	Root          *Node
	FeatureLabels []string
}

// New takes the root Node and a slice of feature labels and returns a tree.
func New(root *Node, featureLabels []string) *Tree {
	return &Tree{root, featureLabels}
}

// Predict takes a row and returns the prediction of the leaf the row
// reaches, or an error if the tree cannot route the row to a leaf.
func (t *Tree) Predict(row []feature.Value) (feature.Value, error) {
	if t == nil || t.Root == nil {
		return nil, errors.Errorf(errors.Configuration, "empty tree cannot predict samples")
	}
	n := t.Root
	for !n.IsLeaf() {
		next, err := n.Next(row)
		if err != nil {
			return nil, fmt.Errorf("predicting sample: %v", err)
		}
		n = next
	}
	return n.Prediction, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. The true
// subtree is always traversed before the false one.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, bottomup, f)
}

func traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, sn := range []*Node{n.True, n.False} {
		if sn == nil {
			continue
		}
		err = traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n)
	}
	return err
}

// Depth returns the number of decision nodes on the longest path from
// the root to a leaf. A tree that is a single leaf has depth 0.
func (t *Tree) Depth() int {
	if t == nil || t.Root == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	dt, df := depth(n.True), depth(n.False)
	if dt > df {
		return dt + 1
	}
	return df + 1
}

// Leaves returns the leaves of the tree from left (true) to right (false)
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return nil
	})
	return leaves
}

/*
Render returns the tree as text, one node per line, with the true subtree
of every decision node above its false subtree. It returns a Configuration
error if the tree is empty or has no feature labels to render its
questions with.
*/
func (t *Tree) Render() (string, error) {
	if t == nil || t.Root == nil {
		return "", errors.Errorf(errors.Configuration, "cannot render an empty tree")
	}
	if t.FeatureLabels == nil {
		return "", errors.Errorf(errors.Configuration, "cannot render a tree without feature labels")
	}
	err := t.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		if n.IsLeaf() {
			return nil
		}
		_, err := feature.NewQuestion(t.FeatureLabels, n.Question.Column, n.Question.Value).Render()
		return err
	})
	if err != nil {
		return "", err
	}
	return subtreeString(t.Root, t.FeatureLabels, ""), nil
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return "[empty tree]\n"
	}
	return subtreeString(t.Root, t.FeatureLabels, "")
}

func subtreeString(n *Node, featureLabels []string, branch string) string {
	var result string
	if branch != "" {
		result = fmt.Sprintf("[%s] ", branch)
	}
	if n.IsLeaf() {
		return fmt.Sprintf("%s{ %v }\n", result, n)
	}
	q := n.Question
	if featureLabels != nil {
		q = feature.NewQuestion(featureLabels, q.Column, q.Value)
	}
	result = fmt.Sprintf("%s{ %v }\n|\n", result, q)
	subtrees := []struct {
		branch string
		node   *Node
	}{{"true", n.True}, {"false", n.False}}
	for i, st := range subtrees {
		var s string
		if st.node == nil {
			s = fmt.Sprintf("[%s] { missing }\n", st.branch)
		} else {
			s = subtreeString(st.node, featureLabels, st.branch)
		}
		for j, line := range strings.Split(s, "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(subtrees)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
