package tree

import (
	"fmt"

	"github.com/pbanos/grove/feature"
)

/*
Node is a node of the tree, either a leaf or a decision node.

A decision node has a Question and owns the two subtrees under it: True,
for samples matching the question, and False, for the rest.

A leaf has no Question and no subtrees. Its Prediction is the label for
samples reaching it and its Weight the number of training samples that
reached it.
*/
type Node struct {
	// The question that routes samples to the True or False subtree.
	// Nil for leaves.
	Question *feature.Question
	// The subtree for samples that match the question
	True *Node
	// The subtree for samples that do not match the question
	False *Node
	// The label predicted for samples reaching a leaf
	Prediction feature.Value
	// Number of training samples that reached a leaf
	Weight int
}

// NewLeaf returns a leaf predicting the given label
func NewLeaf(prediction feature.Value, weight int) *Node {
	return &Node{Prediction: prediction, Weight: weight}
}

// NewDecisionNode returns a decision node with the given question and subtrees
func NewDecisionNode(q *feature.Question, trueBranch, falseBranch *Node) *Node {
	return &Node{Question: q, True: trueBranch, False: falseBranch}
}

// IsLeaf returns whether the node is a leaf
func (n *Node) IsLeaf() bool {
	return n.Question == nil
}

/*
Next takes a row and returns the subtree the row is routed to by the
question of the node, or an error if the node is a leaf or lacks the
subtree.
*/
func (n *Node) Next(row []feature.Value) (*Node, error) {
	if n.IsLeaf() {
		return nil, fmt.Errorf("leaf node has no subtrees")
	}
	next := n.False
	if n.Question.Match(row) {
		next = n.True
	}
	if next == nil {
		return nil, fmt.Errorf("decision node on %v is missing a subtree", n.Question)
	}
	return next, nil
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("Predict %s (%d samples)", feature.Format(n.Prediction), n.Weight)
	}
	return n.Question.String()
}
