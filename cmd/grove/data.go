package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/mongodataset"
	"github.com/pbanos/grove/dataset/sqldataset"
	"github.com/pbanos/grove/feature"
	mgo "gopkg.in/mgo.v2"
)

type sourceKind int

const (
	csvSource sourceKind = iota
	sqlSource
	mongoSource
)

// sourceKindOf tells how samples are kept at a location: a CSV file
// (or STDIN/STDOUT when empty), an SQLite3 (.db) file, a PostgreSQL DB
// connection URL or a MongoDB connection URL.
func sourceKindOf(location string) sourceKind {
	switch {
	case strings.HasPrefix(location, "mongodb://"):
		return mongoSource
	case strings.HasPrefix(location, "postgres://"),
		strings.HasPrefix(location, "postgresql://"),
		strings.HasPrefix(location, "sqlite3://"),
		strings.HasSuffix(location, ".db"):
		return sqlSource
	}
	return csvSource
}

type sampleWriter interface {
	Write(context.Context, [][]feature.Value, []feature.Value) (int, error)
	Close() error
}

// readSamples reads the samples at the location with the given schema.
// The table is the name of the table or collection for databases.
func (rcc *rootCmdConfig) readSamples(ctx context.Context, location, table string, schema *dataset.Schema) ([][]feature.Value, []feature.Value, error) {
	switch sourceKindOf(location) {
	case sqlSource:
		rcc.Logf("Opening SQL table %q on %s to read samples...", table, location)
		t, err := sqldataset.Open(location, table, schema)
		if err != nil {
			return nil, nil, err
		}
		defer t.Close()
		return t.Read(ctx)
	case mongoSource:
		rcc.Logf("Opening mongo collection %q on %s to read samples...", table, location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		defer session.Close()
		c, err := mongodataset.New(session, table, schema)
		if err != nil {
			return nil, nil, err
		}
		return c.Read(ctx, nil)
	}
	if location == "" {
		rcc.Logf("Reading samples from STDIN...")
	} else {
		rcc.Logf("Opening %s to read samples...", location)
	}
	return csv.ReadFile(location, schema)
}

// openWriter returns a writer of samples with the given schema to the
// location, creating the table or file if needed
func (rcc *rootCmdConfig) openWriter(ctx context.Context, location, table string, schema *dataset.Schema) (sampleWriter, error) {
	switch sourceKindOf(location) {
	case sqlSource:
		rcc.Logf("Opening SQL table %q on %s to write samples...", table, location)
		t, err := sqldataset.Open(location, table, schema)
		if err != nil {
			return nil, err
		}
		err = t.Create(ctx)
		if err != nil {
			t.Close()
			return nil, err
		}
		return t, nil
	case mongoSource:
		rcc.Logf("Opening mongo collection %q on %s to write samples...", table, location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		c, err := mongodataset.Open(ctx, session, table, schema)
		if err != nil {
			session.Close()
			return nil, err
		}
		return &mongoWriter{c, session}, nil
	}
	f := os.Stdout
	if location != "" {
		rcc.Logf("Creating %s to write samples...", location)
		var err error
		f, err = os.Create(location)
		if err != nil {
			return nil, err
		}
	}
	w, err := csv.NewWriter(f, schema)
	if err != nil {
		if f != os.Stdout {
			f.Close()
		}
		return nil, err
	}
	return &csvFileWriter{Writer: w, f: f}, nil
}

type mongoWriter struct {
	*mongodataset.Collection
	session *mgo.Session
}

func (mw *mongoWriter) Close() error {
	mw.session.Close()
	return nil
}

type csvFileWriter struct {
	csv.Writer
	f *os.File
}

func (cw *csvFileWriter) Close() error {
	err := cw.Flush()
	if cw.f == os.Stdout {
		return err
	}
	if cerr := cw.f.Close(); err == nil {
		err = cerr
	}
	return err
}
