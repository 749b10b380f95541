/*
Package json serializes trees as JSON checkpoints and reads them back.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/grove/tree"
)

/*
Checkpoint is the persisted state of a decision tree classifier:
  * "featureLabels": the names of the features, or null
  * "tree": the root node of the tree, see Node
  * "verbose": whether the classifier logs its split search
  * "random_state": the seed of the classifier, omitted when unset
  * "maxFeatures": the number of features drawn per split, omitted when unset
  * "numFeatures": the number of features of the rows the tree was fit
    with, omitted when unknown
Feature labels are kept once at the top level instead of in every question.
*/
type Checkpoint struct {
	FeatureLabels []string `json:"featureLabels"`
	Tree          *Node    `json:"tree"`
	Verbose       bool     `json:"verbose"`
	RandomState   *int64   `json:"random_state,omitempty"`
	MaxFeatures   int      `json:"maxFeatures,omitempty"`
	NumFeatures   int      `json:"numFeatures,omitempty"`
}

/*
NewCheckpoint takes a tree and returns a checkpoint with it, or an error
if the tree cannot be represented in JSON.
*/
func NewCheckpoint(t *tree.Tree) (*Checkpoint, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("encoding tree: empty tree")
	}
	jn, err := MarshalNode(t.Root)
	if err != nil {
		return nil, err
	}
	return &Checkpoint{FeatureLabels: t.FeatureLabels, Tree: jn}, nil
}

// DecodeTree returns the tree held by the checkpoint or an error
func (c *Checkpoint) DecodeTree() (*tree.Tree, error) {
	if c.Tree == nil {
		return nil, fmt.Errorf("decoding checkpoint: no tree")
	}
	root, err := UnmarshalNode(c.Tree, c.FeatureLabels)
	if err != nil {
		return nil, err
	}
	return tree.New(root, c.FeatureLabels), nil
}

/*
WriteJSONCheckpoint takes a checkpoint and an io.Writer and serializes the
checkpoint as JSON onto the io.Writer.
*/
func WriteJSONCheckpoint(c *Checkpoint, w io.Writer) error {
	err := json.NewEncoder(w).Encode(c)
	if err != nil {
		return fmt.Errorf("writing checkpoint: %v", err)
	}
	return nil
}

/*
ReadJSONCheckpoint takes an io.Reader and unmarshals its contents into
a checkpoint, checking its tree can be decoded.
*/
func ReadJSONCheckpoint(r io.Reader) (*Checkpoint, error) {
	c := &Checkpoint{}
	err := json.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %v", err)
	}
	if _, err = c.DecodeTree(); err != nil {
		return nil, fmt.Errorf("reading checkpoint: %v", err)
	}
	return c, nil
}
