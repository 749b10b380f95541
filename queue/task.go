package queue

import (
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The path from the root of the tree to the node,
	// "r" followed by a "t" or "f" for every true or false
	// branch taken. It identifies the task on its queue.
	Path string
	// The node to be developed. Only the worker that
	// pulled the task may modify it.
	Node *tree.Node
	// The dataset of training data with the samples
	// that reach the node.
	Dataset *dataset.Dataset
	// The seed for the random generator used to develop
	// the node and to seed the tasks for its subtrees.
	Seed int64
	// The number of decision nodes above the node
	Depth int
}

// NewRootTask takes a node, a dataset and a seed and returns the task
// to develop the node as the root of a tree.
func NewRootTask(n *tree.Node, ds *dataset.Dataset, seed int64) *Task {
	return &Task{Path: "r", Node: n, Dataset: ds, Seed: seed}
}

// Subtask returns a task for developing a subtree of the task's node,
// the one for the true branch if branch is true and the false one otherwise.
func (t *Task) Subtask(branch bool, n *tree.Node, ds *dataset.Dataset, seed int64) *Task {
	suffix := "f"
	if branch {
		suffix = "t"
	}
	return &Task{Path: t.Path + suffix, Node: n, Dataset: ds, Seed: seed, Depth: t.Depth + 1}
}

// ID returns a string that identifies the
// task, the path to its Node.
func (t *Task) ID() string {
	return t.Path
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Path)
}
