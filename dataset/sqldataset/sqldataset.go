/*
Package sqldataset reads labelled samples from SQL database tables and
writes them to them, on SQLite3 files or PostgreSQL databases.

Samples are stored on a table with a column for every feature of a
schema and its label, named after them. NULL stands for an undefined
value.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

const (
	// DefaultTable is the name of the samples table unless told otherwise
	DefaultTable = "samples"
	/*
		MaxSampleInsertionsPerStatement is the maximum number
		of samples that are allowed to be added with a single
		insert command with the Write method of a Table.
		Trying to add more will result in making more insertion commands
	*/
	MaxSampleInsertionsPerStatement = 10
)

// Table is a table of samples on an SQL database
type Table struct {
	db      *sql.DB
	dialect Dialect
	name    string
	schema  *dataset.Schema
	columns []string
}

/*
Open takes the URL of a database (see DialectFor), the name of a table and
a schema and returns a Table on the database or an error if the database
cannot be opened or the table and feature names cannot be used as SQL
identifiers.
*/
func Open(url, name string, schema *dataset.Schema) (*Table, error) {
	d, dsn := DialectFor(url)
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %v", d.DriverName(), err)
	}
	t, err := New(db, d, name, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

/*
New takes an open database, its dialect, the name of a table and a schema
and returns a Table on the database or an error if the table and feature
names cannot be used as SQL identifiers.
*/
func New(db *sql.DB, d Dialect, name string, schema *dataset.Schema) (*Table, error) {
	if schema.Label == nil {
		return nil, errors.Errorf(errors.Configuration, "sql tables need a schema with a label")
	}
	if name == "" {
		name = DefaultTable
	}
	t := &Table{db: db, dialect: d, schema: schema}
	var err error
	t.name, err = identifier(name)
	if err != nil {
		return nil, errors.Errorf(errors.Configuration, "table name: %v", err)
	}
	for _, f := range schema.Columns() {
		c, err := identifier(f.Name())
		if err != nil {
			return nil, errors.Errorf(errors.Configuration, "feature column: %v", err)
		}
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// Close closes the database of the table
func (t *Table) Close() error {
	return t.db.Close()
}

// Create ensures the table exists on the database
func (t *Table) Create(ctx context.Context) error {
	stmt, err := t.createStatement()
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensuring %s table exists: %v", t.name, err)
	}
	return nil
}

/*
Write takes a context, a sample matrix and its labels and inserts them on
the table, MaxSampleInsertionsPerStatement at a time. It returns the
number of samples inserted and an error if not all of them could be.
*/
func (t *Table) Write(ctx context.Context, X [][]feature.Value, y []feature.Value) (int, error) {
	if len(X) != len(y) {
		return 0, errors.Errorf(errors.ShapeMismatch, "writing %d rows with %d labels", len(X), len(y))
	}
	for i := range X {
		if err := t.schema.Check(X[i], y[i]); err != nil {
			return 0, errors.Wrapf(err, "writing sample %d", i)
		}
	}
	written := 0
	for written < len(X) {
		end := written + MaxSampleInsertionsPerStatement
		if end > len(X) {
			end = len(X)
		}
		args := make([]interface{}, 0, (end-written)*len(t.columns))
		for i := written; i < end; i++ {
			for _, v := range X[i] {
				args = append(args, v)
			}
			args = append(args, y[i])
		}
		_, err := t.db.ExecContext(ctx, t.insertStatement(end-written), args...)
		if err != nil {
			return written, fmt.Errorf("inserting samples %d to %d: %v", written, end-1, err)
		}
		written = end
	}
	return written, nil
}

/*
ReadBySample takes a context and a lambda function on an integer, a row
and its label that returns a boolean value. It queries the samples of the
table and for each it calls the lambda function with its index, row and
label as parameters. If the lambda function returns true, it will
continue processing the next sample, otherwise it will stop.
*/
func (t *Table) ReadBySample(ctx context.Context, lambda func(int, []feature.Value, feature.Value) (bool, error)) error {
	rows, err := t.db.QueryContext(ctx, t.selectStatement())
	if err != nil {
		return fmt.Errorf("querying %s table: %v", t.name, err)
	}
	defer rows.Close()
	columns := t.schema.Columns()
	for j := 0; rows.Next(); j++ {
		scanned := make([]interface{}, 0, len(columns))
		for _, f := range columns {
			scanned = append(scanned, scanTarget(f))
		}
		err = rows.Scan(scanned...)
		if err != nil {
			return fmt.Errorf("scanning sample %d: %v", j, err)
		}
		values := make([]feature.Value, 0, len(columns))
		for _, s := range scanned {
			values = append(values, scannedValue(s))
		}
		n := len(t.schema.Features)
		row, label := values[:n:n], values[n]
		if err = t.schema.Check(row, label); err != nil {
			return errors.Wrapf(err, "reading sample %d", j)
		}
		ok, err := lambda(j, row, label)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

// Read returns every sample of the table as a sample matrix and its labels
func (t *Table) Read(ctx context.Context) ([][]feature.Value, []feature.Value, error) {
	var X [][]feature.Value
	var y []feature.Value
	err := t.ReadBySample(ctx, func(_ int, row []feature.Value, label feature.Value) (bool, error) {
		X = append(X, row)
		y = append(y, label)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

func (t *Table) createStatement() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("CREATE TABLE IF NOT EXISTS ")
	buf.WriteString(t.name)
	buf.WriteString("(")
	for i, f := range t.schema.Columns() {
		ct, err := t.dialect.ColumnType(f)
		if err != nil {
			return "", errors.Errorf(errors.Configuration, "%v", err)
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf("%s %s NULL", t.columns[i], ct))
	}
	buf.WriteString(")")
	return buf.String(), nil
}

func (t *Table) insertStatement(samples int) string {
	var buf bytes.Buffer
	buf.WriteString("INSERT INTO ")
	buf.WriteString(t.name)
	buf.WriteString(" (")
	for i, c := range t.columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(c)
	}
	buf.WriteString(") VALUES ")
	p := 0
	for s := 0; s < samples; s++ {
		if s > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for i := range t.columns {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(t.dialect.Placeholder(p))
			p++
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func (t *Table) selectStatement() string {
	var buf bytes.Buffer
	buf.WriteString("SELECT ")
	for i, c := range t.columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(c)
	}
	buf.WriteString(" FROM ")
	buf.WriteString(t.name)
	return buf.String()
}

func scanTarget(f feature.Feature) interface{} {
	switch f.(type) {
	case *feature.ContinuousFeature:
		return &sql.NullFloat64{}
	case *feature.BooleanFeature:
		return &sql.NullBool{}
	}
	return &sql.NullString{}
}

func scannedValue(s interface{}) feature.Value {
	switch s := s.(type) {
	case *sql.NullFloat64:
		if s.Valid {
			return s.Float64
		}
	case *sql.NullBool:
		if s.Valid {
			return s.Bool
		}
	case *sql.NullString:
		if s.Valid {
			return s.String
		}
	}
	return nil
}
