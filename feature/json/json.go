/*
Package json encodes feature questions as JSON objects and decodes them
back.
*/
package json

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pbanos/grove/feature"
)

/*
QuestionEncodeDecoder is an interface for objects
that allow encoding questions into slices of
bytes and decoding them back to questions.
*/
type QuestionEncodeDecoder interface {

	//Encode receives a *feature.Question
	//and returns a slice of bytes with the question
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*feature.Question) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *feature.Question decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*feature.Question, error)
}

type questionEncodeDecoder []string

// Question is the JSON representation of a feature.Question
type Question struct {
	Column int             `json:"column"`
	Value  json.RawMessage `json:"value"`
}

/*
NewQuestionEncodeDecoder takes the feature labels that decoded questions
will carry (possibly nil) and returns a QuestionEncodeDecoder.
Questions are encoded as a JSON object with a "column" property set to the
index of the column of the question and a "value" property set to its
value as a JSON number, string or boolean. Feature labels are not encoded.
*/
func NewQuestionEncodeDecoder(featureLabels []string) QuestionEncodeDecoder {
	return questionEncodeDecoder(featureLabels)
}

func (qed questionEncodeDecoder) Encode(q *feature.Question) ([]byte, error) {
	jq, err := MarshalQuestion(q)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jq)
}

func (qed questionEncodeDecoder) Decode(data []byte) (*feature.Question, error) {
	jq := &Question{}
	err := json.Unmarshal(data, jq)
	if err != nil {
		return nil, err
	}
	return UnmarshalQuestion(jq, []string(qed))
}

/*
MarshalQuestion takes a question and returns its JSON representation or an
error if its value cannot be represented in JSON.
*/
func MarshalQuestion(q *feature.Question) (*Question, error) {
	if q.Column < 0 {
		return nil, fmt.Errorf("encoding question: negative column %d", q.Column)
	}
	v, err := MarshalValue(q.Value)
	if err != nil {
		return nil, fmt.Errorf("encoding question on column %d: %v", q.Column, err)
	}
	return &Question{Column: q.Column, Value: v}, nil
}

/*
UnmarshalQuestion takes the JSON representation of a question and the
feature labels it should carry and returns the question or an error.
*/
func UnmarshalQuestion(jq *Question, featureLabels []string) (*feature.Question, error) {
	if jq.Column < 0 {
		return nil, fmt.Errorf("decoding question: negative column %d", jq.Column)
	}
	v, err := UnmarshalValue(jq.Value)
	if err != nil {
		return nil, fmt.Errorf("decoding question on column %d: %v", jq.Column, err)
	}
	return feature.NewQuestion(featureLabels, jq.Column, v), nil
}

/*
MarshalValue returns the JSON encoding of a value, a number, a string or
a boolean. Values that JSON cannot represent, like NaN, are rejected.
*/
func MarshalValue(v feature.Value) (json.RawMessage, error) {
	nv, err := feature.Normalize(v)
	if err != nil {
		return nil, err
	}
	if f, ok := nv.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, fmt.Errorf("value %v cannot be encoded as JSON", f)
	}
	data, err := json.Marshal(nv)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

/*
UnmarshalValue decodes a JSON number, string or boolean into a value.
Numbers are always decoded as float64. Any other JSON type is rejected.
*/
func UnmarshalValue(data json.RawMessage) (feature.Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing value")
	}
	var v interface{}
	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case float64, string, bool:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported JSON value %s: expected a number, a string or a boolean", string(data))
}
