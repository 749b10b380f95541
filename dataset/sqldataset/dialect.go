package sqldataset

import (
	"fmt"
	"strings"

	"github.com/pbanos/grove/feature"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

/*
Dialect is the flavour of SQL spoken by a database: the driver to open
connections to it with, how statement parameters are written and the
column types for every kind of feature.
*/
type Dialect interface {
	DriverName() string
	Placeholder(i int) string
	ColumnType(f feature.Feature) (string, error)
}

type sqlite3 struct{}
type postgres struct{}

var (
	// SQLite3 is the dialect of SQLite3 database files
	SQLite3 Dialect = sqlite3{}
	// PostgreSQL is the dialect of PostgreSQL databases
	PostgreSQL Dialect = postgres{}
)

func (sqlite3) DriverName() string { return "sqlite3" }

func (sqlite3) Placeholder(int) string { return "?" }

func (sqlite3) ColumnType(f feature.Feature) (string, error) {
	switch f.(type) {
	case *feature.ContinuousFeature:
		return "REAL", nil
	case *feature.BooleanFeature:
		return "BOOLEAN", nil
	case *feature.DiscreteFeature:
		return "TEXT", nil
	}
	return "", fmt.Errorf("no column type for feature %s of type %T", f.Name(), f)
}

func (postgres) DriverName() string { return "postgres" }

func (postgres) Placeholder(i int) string { return fmt.Sprintf("$%d", i+1) }

func (postgres) ColumnType(f feature.Feature) (string, error) {
	switch f.(type) {
	case *feature.ContinuousFeature:
		return "DOUBLE PRECISION", nil
	case *feature.BooleanFeature:
		return "BOOLEAN", nil
	case *feature.DiscreteFeature:
		return "TEXT", nil
	}
	return "", fmt.Errorf("no column type for feature %s of type %T", f.Name(), f)
}

/*
DialectFor takes the URL of a database and returns the dialect to use
with it and the data source name to open it with: postgres:// and
postgresql:// URLs are PostgreSQL databases, anything else is taken as
the path to an SQLite3 database file.
*/
func DialectFor(url string) (Dialect, string) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return PostgreSQL, url
	}
	return SQLite3, strings.TrimPrefix(url, "sqlite3://")
}

// identifier returns the name quoted as an SQL identifier
func identifier(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, name)
	}
	return `"` + name + `"`, nil
}
