package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/ensemble"
	"github.com/pbanos/grove/errors"
)

const (
	// TreeKind is the kind of models holding a DecisionTreeClassifier
	TreeKind = "tree"
	// ForestKind is the kind of models holding an ensemble of trees
	ForestKind = "forest"
)

/*
Model is a trained classifier as kept on a Store: its kind and its
checkpoint. Models are encoded as a JSON object with a "kind" property
and a "model" property with the checkpoint. The ID is set by the Store
and not encoded.
*/
type Model struct {
	ID         string          `json:"-"`
	Kind       string          `json:"kind"`
	Checkpoint json.RawMessage `json:"model"`
}

// Classifier is implemented by every classifier a Model can hold
type Classifier interface {
	ensemble.Estimator
	grove.Predictor
}

// NewTreeModel returns a model with the checkpoint of a fit tree classifier
func NewTreeModel(c *grove.DecisionTreeClassifier) (*Model, error) {
	cp, err := c.ToJSON()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("encoding tree model: %v", err)
	}
	return &Model{Kind: TreeKind, Checkpoint: data}, nil
}

// NewForestModel returns a model with the checkpoint of an ensemble of trees
func NewForestModel(cp *ensemble.ForestCheckpoint) (*Model, error) {
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("encoding forest model: %v", err)
	}
	return &Model{Kind: ForestKind, Checkpoint: data}, nil
}

// Classifier returns the classifier restored from the model's checkpoint
func (m *Model) Classifier() (Classifier, error) {
	switch m.Kind {
	case TreeKind:
		c := grove.NewDecisionTreeClassifier()
		err := c.UnmarshalJSON(m.Checkpoint)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ForestKind:
		rf := &ensemble.RandomForest{}
		err := rf.UnmarshalJSON(m.Checkpoint)
		if err != nil {
			return nil, err
		}
		return rf, nil
	}
	return nil, errors.Errorf(errors.InvalidInput, "unknown model kind %q", m.Kind)
}

// Trees returns the tree classifiers of the model
func (m *Model) Trees() ([]*grove.DecisionTreeClassifier, error) {
	c, err := m.Classifier()
	if err != nil {
		return nil, err
	}
	switch c := c.(type) {
	case *grove.DecisionTreeClassifier:
		return []*grove.DecisionTreeClassifier{c}, nil
	case *ensemble.RandomForest:
		return c.Trees(), nil
	}
	return nil, fmt.Errorf("model of kind %q has no trees", m.Kind)
}

/*
EncodeModel takes a model and returns it encoded as JSON or an error.
*/
func EncodeModel(m *Model) ([]byte, error) {
	return json.Marshal(m)
}

/*
DecodeModel takes the JSON encoding of a model and returns the model
or an error if it cannot be decoded or holds no valid classifier.
*/
func DecodeModel(data []byte) (*Model, error) {
	m := &Model{}
	err := json.Unmarshal(data, m)
	if err != nil {
		return nil, errors.Errorf(errors.InvalidInput, "decoding model: %v", err)
	}
	if _, err = m.Classifier(); err != nil {
		return nil, errors.Wrapf(err, "decoding model")
	}
	return m, nil
}

// ReadFile reads the model encoded on the file at the given path
func ReadFile(path string) (*Model, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file %s: %v", path, err)
	}
	m, err := DecodeModel(data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model file %s", path)
	}
	m.ID = path
	return m, nil
}

// WriteFile writes the model encoded onto the file at the given path
func WriteFile(path string, m *Model) error {
	data, err := EncodeModel(m)
	if err != nil {
		return err
	}
	err = ioutil.WriteFile(path, data, os.FileMode(0644))
	if err != nil {
		return fmt.Errorf("writing model file %s: %v", path, err)
	}
	return nil
}

// Load takes a context, a store and an ID and returns the classifier of
// the model with that ID, or an error if there is none.
func Load(ctx context.Context, s Store, id string) (Classifier, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("model %q not found", id)
	}
	return m.Classifier()
}
