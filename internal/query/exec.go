package query

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Statement is a named, fully parameterized SQL statement. Name labels logs
// and metrics.
type Statement struct {
	Name   string
	SQL    string
	Params []any
}

// Executor runs statements against the store. Implementations acquire a
// connection for the duration of one call and release it before returning.
type Executor interface {
	Query(ctx context.Context, st Statement) ([]Row, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, st Statement) ([]Row, error)

// Query implements Executor.
func (f ExecutorFunc) Query(ctx context.Context, st Statement) ([]Row, error) {
	return f(ctx, st)
}

// DBExecutor runs statements through database/sql.
type DBExecutor struct {
	db *sql.DB
}

// NewDBExecutor creates a DBExecutor.
func NewDBExecutor(db *sql.DB) *DBExecutor {
	return &DBExecutor{db: db}
}

// Query implements Executor.
func (e *DBExecutor) Query(ctx context.Context, st Statement) ([]Row, error) {
	rows, err := e.db.QueryContext(ctx, st.SQL, st.Params...)
	if err != nil {
		return nil, &QueryExecutionError{Statement: st.Name, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryExecutionError{Statement: st.Name, Err: err}
	}

	var result []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryExecutionError{Statement: st.Name, Err: err}
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryExecutionError{Statement: st.Name, Err: err}
	}
	return result, nil
}

// PoolExecutor runs statements on a pgx connection pool.
type PoolExecutor struct {
	pool *pgxpool.Pool
}

// NewPoolExecutor creates a PoolExecutor.
func NewPoolExecutor(pool *pgxpool.Pool) *PoolExecutor {
	return &PoolExecutor{pool: pool}
}

// Query implements Executor.
func (e *PoolExecutor) Query(ctx context.Context, st Statement) ([]Row, error) {
	rows, err := e.pool.Query(ctx, st.SQL, st.Params...)
	if err != nil {
		return nil, &QueryExecutionError{Statement: st.Name, Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, &QueryExecutionError{Statement: st.Name, Err: err}
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[f.Name] = vals[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryExecutionError{Statement: st.Name, Err: err}
	}
	return result, nil
}
