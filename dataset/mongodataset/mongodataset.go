/*
Package mongodataset reads labelled samples from a MongoDB collection and
writes them to it.

Every sample is a document with a field for every feature of a schema and
its label, named after them. Undefined values are left out of documents.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollection is the name of the samples collection unless told otherwise
const DefaultCollection = "samples"

// Collection is a collection of samples on a MongoDB database
type Collection struct {
	session *mgo.Session
	name    string
	schema  *dataset.Schema
}

/*
Open takes a MongoDB database session, the name of a collection and a
schema and returns the Collection on the default database for that
session, ensuring there is an index for every feature. It returns an
error if a feature name cannot be used as field or the indexes cannot
be created.
*/
func Open(ctx context.Context, session *mgo.Session, name string, schema *dataset.Schema) (*Collection, error) {
	c, err := New(session, name, schema)
	if err != nil {
		return nil, err
	}
	err = c.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// New returns the Collection without touching the database
func New(session *mgo.Session, name string, schema *dataset.Schema) (*Collection, error) {
	if schema.Label == nil {
		return nil, errors.Errorf(errors.Configuration, "mongo collections need a schema with a label")
	}
	if name == "" {
		name = DefaultCollection
	}
	for _, f := range schema.Columns() {
		err := checkFieldName(f.Name())
		if err != nil {
			return nil, errors.Errorf(errors.Configuration, "%v", err)
		}
	}
	return &Collection{session: session, name: name, schema: schema}, nil
}

// Write takes a sample matrix and its labels and inserts them as documents
func (c *Collection) Write(ctx context.Context, X [][]feature.Value, y []feature.Value) (int, error) {
	if len(X) != len(y) {
		return 0, errors.Errorf(errors.ShapeMismatch, "writing %d rows with %d labels", len(X), len(y))
	}
	docs := make([]interface{}, 0, len(X))
	for i := range X {
		doc, err := c.document(X[i], y[i])
		if err != nil {
			return 0, errors.Wrapf(err, "writing sample %d", i)
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := c.collection().Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("inserting samples: %v", err)
	}
	return len(docs), nil
}

/*
ReadBySample takes a context, a filter (nil for every document) and a
lambda function on an integer, a row and its label that returns a boolean
value. It iterates on the documents matching the filter and for each it
calls the lambda function with its index, row and label as parameters. If
the lambda function returns true, it will continue processing the next
sample, otherwise it will stop.
*/
func (c *Collection) ReadBySample(ctx context.Context, filter bson.M, lambda func(int, []feature.Value, feature.Value) (bool, error)) error {
	iter := c.collection().Find(filter).Iter()
	var doc bson.M
	for j := 0; iter.Next(&doc); j++ {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return err
		}
		row, label, err := c.sample(doc)
		if err != nil {
			iter.Close()
			return errors.Wrapf(err, "reading sample %d", j)
		}
		ok, err := lambda(j, row, label)
		if err != nil || !ok {
			iter.Close()
			return err
		}
		doc = nil
	}
	return iter.Close()
}

// Read returns the samples matching the filter (nil for every document)
// as a sample matrix and its labels
func (c *Collection) Read(ctx context.Context, filter bson.M) ([][]feature.Value, []feature.Value, error) {
	var X [][]feature.Value
	var y []feature.Value
	err := c.ReadBySample(ctx, filter, func(_ int, row []feature.Value, label feature.Value) (bool, error) {
		X = append(X, row)
		y = append(y, label)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

/*
Filter takes a question and an answer and returns the filter for the
documents whose row gets that answer: a range on the field for numeric
questions, an equality otherwise. Documents without the field never
match the question, so they are selected when the answer is false.
*/
func (c *Collection) Filter(q *feature.Question, answer bool) (bson.M, error) {
	if q.Column < 0 || q.Column >= len(c.schema.Features) {
		return nil, errors.Errorf(errors.InvalidInput, "question on column %d of %d features", q.Column, len(c.schema.Features))
	}
	field := c.schema.Features[q.Column].Name()
	op := "$eq"
	if q.Numeric() {
		op = "$gte"
	}
	match := bson.M{field: bson.M{op: q.Value}}
	if answer {
		return match, nil
	}
	return bson.M{"$nor": []bson.M{match}}, nil
}

func (c *Collection) document(row []feature.Value, label feature.Value) (bson.M, error) {
	err := c.schema.Check(row, label)
	if err != nil {
		return nil, err
	}
	doc := make(bson.M)
	for i, f := range c.schema.Features {
		if row[i] != nil {
			doc[f.Name()] = row[i]
		}
	}
	if label != nil {
		doc[c.schema.Label.Name()] = label
	}
	return doc, nil
}

func (c *Collection) sample(doc bson.M) ([]feature.Value, feature.Value, error) {
	row := make([]feature.Value, 0, len(c.schema.Features))
	for _, f := range c.schema.Features {
		v, err := fieldValue(doc, f)
		if err != nil {
			return nil, nil, err
		}
		row = append(row, v)
	}
	label, err := fieldValue(doc, c.schema.Label)
	if err != nil {
		return nil, nil, err
	}
	err = c.schema.Check(row, label)
	if err != nil {
		return nil, nil, err
	}
	return row, label, nil
}

func fieldValue(doc bson.M, f feature.Feature) (feature.Value, error) {
	v, ok := doc[f.Name()]
	if !ok || v == nil {
		return nil, nil
	}
	nv, err := feature.Normalize(v)
	if err != nil {
		return nil, errors.Errorf(errors.InvalidInput, "field %s: %v", f.Name(), err)
	}
	return nv, nil
}

func (c *Collection) ensureIndexes() error {
	for _, f := range c.schema.Features {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := c.collection().EnsureIndex(index)
		if err != nil {
			return fmt.Errorf("ensuring index on %s: %v", f.Name(), err)
		}
	}
	return nil
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}

func checkFieldName(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}
