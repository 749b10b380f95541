/*
Package csv reads labelled samples from CSV streams and writes them back.

The header or first row of the CSV content consists of the names of the
columns, every feature of a schema plus its label, in any order. The rest
of the rows hold valid values for the features or the '?' string for an
undefined value.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write writes the rows of the sample matrix X with their labels
	// on y and returns the number of samples actually written and an
	// error if not all of them could be written.
	Write(ctx context.Context, X [][]feature.Value, y []feature.Value) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count  int
	schema *dataset.Schema
	w      *csv.Writer
}

/*
Read takes an io.Reader for a CSV stream and a schema and returns the
sample matrix and the labels parsed from it, or an error. When the schema
has no label, the labels are nil and the CSV content must not have a
label column.
*/
func Read(reader io.Reader, schema *dataset.Schema) ([][]feature.Value, []feature.Value, error) {
	var X [][]feature.Value
	var y []feature.Value
	err := ReadBySample(reader, schema, func(_ int, row []feature.Value, label feature.Value) (bool, error) {
		X = append(X, row)
		if schema.Label != nil {
			y = append(y, label)
		}
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, a schema and a lambda
function on an integer, a row and its label that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda
function with its index, row and label as parameters. If the lambda
function returns true, it will continue processing the next sample,
otherwise it will stop. An error is returned if something goes wrong
when reading the stream or parsing a sample.
*/
func ReadBySample(reader io.Reader, schema *dataset.Schema, lambda func(int, []feature.Value, feature.Value) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return errors.Errorf(errors.InvalidInput, "reading header: %v", err)
	}
	positions, err := parseHeader(header, schema)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Errorf(errors.InvalidInput, "reading body: %v", err)
		}
		row, label, err := parseRecord(record, positions, schema)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, row, label)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFile takes a filepath string and a schema, opens the file to which
the filepath points to (os.Stdin if it is "") and uses Read to return
the samples on it or an error.
*/
func ReadFile(filepath string, schema *dataset.Schema) ([][]feature.Value, []feature.Value, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	X, y, err := Read(f, schema)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return X, y, nil
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that
will write samples on the io.Writer, after writing the header.
*/
func NewWriter(writer io.Writer, schema *dataset.Schema) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(feature.Names(schema.Columns()))
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{schema: schema, w: w}, nil
}

/*
Write takes a context, a writer, a schema and a sample matrix with its
labels and dumps them to the writer in CSV format. It returns an error if
something went wrong when writing to the writer or codifying the samples.
*/
func Write(ctx context.Context, writer io.Writer, schema *dataset.Schema, X [][]feature.Value, y []feature.Value) error {
	cw, err := NewWriter(writer, schema)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, X, y)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, schema *dataset.Schema) ([]int, error) {
	columns := schema.Columns()
	positions := make([]int, len(columns))
	for i := range positions {
		positions[i] = -1
	}
	for i, name := range header {
		j := feature.Find(columns, name)
		if j < 0 {
			return nil, errors.Errorf(errors.InvalidInput, "parsing header: reference to unknown feature %s", name)
		}
		if positions[j] >= 0 {
			return nil, errors.Errorf(errors.InvalidInput, "parsing header: feature %s appears twice", name)
		}
		positions[j] = i
	}
	for j, p := range positions {
		if p < 0 {
			return nil, errors.Errorf(errors.InvalidInput, "parsing header: missing feature %s", columns[j].Name())
		}
	}
	return positions, nil
}

func parseRecord(record []string, positions []int, schema *dataset.Schema) ([]feature.Value, feature.Value, error) {
	columns := schema.Columns()
	values := make([]feature.Value, len(columns))
	for j, f := range columns {
		v, err := dataset.Parse(f, record[positions[j]])
		if err != nil {
			return nil, nil, err
		}
		values[j] = v
	}
	n := len(schema.Features)
	row := values[:n:n]
	var label feature.Value
	if schema.Label != nil {
		label = values[n]
	}
	if err := schema.Check(row, label); err != nil {
		return nil, nil, err
	}
	return row, label, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, X [][]feature.Value, y []feature.Value) (int, error) {
	if cw.schema.Label != nil && len(X) != len(y) {
		return 0, errors.Errorf(errors.ShapeMismatch, "writing %d rows with %d labels", len(X), len(y))
	}
	for i, row := range X {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		var label feature.Value
		if cw.schema.Label != nil {
			label = y[i]
		}
		err := cw.writeSample(row, label)
		if err != nil {
			return i, err
		}
	}
	return len(X), nil
}

func (cw *csvWriter) writeSample(row []feature.Value, label feature.Value) error {
	err := cw.schema.Check(row, label)
	if err != nil {
		return errors.Wrapf(err, "writing sample %d", cw.count+1)
	}
	record := make([]string, 0, len(row)+1)
	for _, v := range row {
		record = append(record, dataset.Format(v))
	}
	if cw.schema.Label != nil {
		record = append(record, dataset.Format(label))
	}
	err = cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
