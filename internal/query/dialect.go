package query

import (
	"fmt"
	"strconv"
	"time"
)

// Dialect renders the store-specific fragments the engine needs. Every
// fragment is built from engine-owned identifiers and placeholder indexes,
// never from request input.
type Dialect interface {
	Name() string
	// Placeholder returns the n-th (1-based) positional placeholder. The same
	// placeholder may appear several times in one statement.
	Placeholder(n int) string
	// Contains renders a case-insensitive partial match of column against the
	// placeholder holding an escaped, wildcarded term.
	Contains(column, placeholder string) string
	// Bucket renders the expression grouping column into periods.
	Bucket(column string, g Granularity) string
	// Bind converts an engine value into what the driver expects.
	Bind(v any) any
}

// Granularity is the period size of a report series.
type Granularity string

// Supported granularities.
const (
	Month Granularity = "mes"
	Year  Granularity = "anio"
)

// ParseGranularity maps a request value to a Granularity, defaulting to Month.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", Month:
		return Month, nil
	case Year:
		return Year, nil
	}
	return "", fmt.Errorf("unknown period granularity %q", s)
}

// Postgres is the dialect for PostgreSQL through pgx.
type Postgres struct{}

// Name implements Dialect.
func (Postgres) Name() string { return "postgres" }

// Placeholder implements Dialect.
func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// Contains implements Dialect.
func (Postgres) Contains(column, placeholder string) string {
	return fmt.Sprintf(`CAST(%s AS TEXT) ILIKE %s ESCAPE '\'`, column, placeholder)
}

// Bucket implements Dialect.
func (Postgres) Bucket(column string, g Granularity) string {
	if g == Year {
		return fmt.Sprintf("to_char(%s, 'YYYY')", column)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
}

// Bind implements Dialect.
func (Postgres) Bind(v any) any {
	if d, ok := v.(Date); ok {
		return d.Time()
	}
	return v
}

// SQLite is the dialect for modernc.org/sqlite. Dates are stored as
// YYYY-MM-DD text so they compare correctly as strings.
type SQLite struct{}

// Name implements Dialect.
func (SQLite) Name() string { return "sqlite" }

// Placeholder implements Dialect.
func (SQLite) Placeholder(n int) string { return "?" + strconv.Itoa(n) }

// SQLiteFoldFunc names the Unicode case-folding scalar function the database
// package registers with the SQLite driver.
const SQLiteFoldFunc = "casefold"

// Contains implements Dialect. SQLite's LIKE only ignores ASCII case, so both
// sides are folded first.
func (SQLite) Contains(column, placeholder string) string {
	return fmt.Sprintf(`%s(CAST(%s AS TEXT)) LIKE %s(%s) ESCAPE '\'`, SQLiteFoldFunc, column, SQLiteFoldFunc, placeholder)
}

// Bucket implements Dialect.
func (SQLite) Bucket(column string, g Granularity) string {
	if g == Year {
		return fmt.Sprintf("strftime('%%Y', %s)", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
}

// Bind implements Dialect.
func (SQLite) Bind(v any) any {
	switch t := v.(type) {
	case Date:
		return t.String()
	case time.Time:
		return t.Format(DateLayout)
	}
	return v
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres", "pgx":
		return Postgres{}, nil
	case "sqlite":
		return SQLite{}, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", name)
}
