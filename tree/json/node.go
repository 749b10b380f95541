package json

import (
	"encoding/json"
	"fmt"

	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes, with their subtrees,
into slices of bytes and decoding them back.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder []string

/*
Node is the JSON representation of a tree.Node. A leaf is encoded as
{"prediction": <label>, "weight": <n>} and a decision node as
{"question": {...}, "trueBranch": <node>, "falseBranch": <node>}.
*/
type Node struct {
	Question    *fjson.Question `json:"question,omitempty"`
	TrueBranch  *Node           `json:"trueBranch,omitempty"`
	FalseBranch *Node           `json:"falseBranch,omitempty"`
	Prediction  json.RawMessage `json:"prediction,omitempty"`
	Weight      int             `json:"weight,omitempty"`
}

/*
NewNodeEncodeDecoder takes the feature labels that questions of decoded
nodes will carry (possibly nil) and returns a NodeEncodeDecoder.
*/
func NewNodeEncodeDecoder(featureLabels []string) NodeEncodeDecoder {
	return nodeEncodeDecoder(featureLabels)
}

func (ned nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn, err := MarshalNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jn)
}

func (ned nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &Node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	return UnmarshalNode(jn, []string(ned))
}

// MarshalNode returns the JSON representation of a node and its subtrees
func MarshalNode(n *tree.Node) (*Node, error) {
	if n == nil {
		return nil, fmt.Errorf("encoding node: nil node")
	}
	if n.IsLeaf() {
		p, err := fjson.MarshalValue(n.Prediction)
		if err != nil {
			return nil, fmt.Errorf("encoding leaf prediction: %v", err)
		}
		return &Node{Prediction: p, Weight: n.Weight}, nil
	}
	q, err := fjson.MarshalQuestion(n.Question)
	if err != nil {
		return nil, err
	}
	tb, err := MarshalNode(n.True)
	if err != nil {
		return nil, fmt.Errorf("encoding true branch of %v: %v", n.Question, err)
	}
	fb, err := MarshalNode(n.False)
	if err != nil {
		return nil, fmt.Errorf("encoding false branch of %v: %v", n.Question, err)
	}
	return &Node{Question: q, TrueBranch: tb, FalseBranch: fb}, nil
}

/*
UnmarshalNode takes the JSON representation of a node and the feature
labels its questions should carry and returns the node with its subtrees,
or an error if a node is neither a valid leaf nor a valid decision node.
*/
func UnmarshalNode(jn *Node, featureLabels []string) (*tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("decoding node: missing node")
	}
	if jn.Question == nil {
		if len(jn.Prediction) == 0 {
			return nil, fmt.Errorf("decoding node: node has neither question nor prediction")
		}
		if jn.TrueBranch != nil || jn.FalseBranch != nil {
			return nil, fmt.Errorf("decoding node: leaf node has branches")
		}
		p, err := fjson.UnmarshalValue(jn.Prediction)
		if err != nil {
			return nil, fmt.Errorf("decoding leaf prediction: %v", err)
		}
		return tree.NewLeaf(p, jn.Weight), nil
	}
	if len(jn.Prediction) != 0 {
		return nil, fmt.Errorf("decoding node: node has both question and prediction")
	}
	q, err := fjson.UnmarshalQuestion(jn.Question, featureLabels)
	if err != nil {
		return nil, err
	}
	tb, err := UnmarshalNode(jn.TrueBranch, featureLabels)
	if err != nil {
		return nil, fmt.Errorf("decoding true branch of %v: %v", q, err)
	}
	fb, err := UnmarshalNode(jn.FalseBranch, featureLabels)
	if err != nil {
		return nil, fmt.Errorf("decoding false branch of %v: %v", q, err)
	}
	return tree.NewDecisionNode(q, tb, fb), nil
}
