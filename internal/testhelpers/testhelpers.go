package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/johnwards/backoffice/internal/database"
	"github.com/johnwards/backoffice/internal/query"
	"github.com/johnwards/backoffice/internal/seed"
)

// NewTestDB returns an in-memory SQLite database configured the same way as
// production. The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewTestHandle returns a migrated in-memory handle with no data.
func NewTestHandle(t *testing.T) *database.Handle {
	t.Helper()

	h := &database.Handle{SQL: NewTestDB(t), Dialect: query.SQLite{}}
	if err := database.Migrate(context.Background(), h.SQL, h.Dialect); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return h
}

// NewSeededHandle returns a migrated in-memory handle loaded with the demo
// data set.
func NewSeededHandle(t *testing.T) *database.Handle {
	t.Helper()

	h := NewTestHandle(t)
	if err := seed.Seed(context.Background(), h.SQL, h.Dialect); err != nil {
		t.Fatalf("seed test database: %v", err)
	}
	return h
}

// Queryer runs ad-hoc checks against a test database, failing the test on
// error.
type Queryer struct {
	t  *testing.T
	db *sql.DB
}

// NewQueryer wraps db for assertions.
func NewQueryer(t *testing.T, db *sql.DB) *Queryer {
	return &Queryer{t: t, db: db}
}

// Int returns the single integer produced by q.
func (q *Queryer) Int(stmt string, args ...any) int64 {
	q.t.Helper()
	var n int64
	if err := q.db.QueryRow(stmt, args...).Scan(&n); err != nil {
		q.t.Fatalf("query %q: %v", stmt, err)
	}
	return n
}

// Float returns the single number produced by q; NULL reads as 0.
func (q *Queryer) Float(stmt string, args ...any) float64 {
	q.t.Helper()
	var f sql.NullFloat64
	if err := q.db.QueryRow(stmt, args...).Scan(&f); err != nil {
		q.t.Fatalf("query %q: %v", stmt, err)
	}
	return f.Float64
}
