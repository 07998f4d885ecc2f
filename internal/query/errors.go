package query

import (
	"errors"
	"fmt"
)

// ErrInvalidSortDirection is returned by ParseDirection for anything other
// than ASC or DESC. Resolve recovers from it by falling back to DESC.
var ErrInvalidSortDirection = errors.New("invalid sort direction")

// InvalidFilterValue reports a request parameter that failed type coercion.
type InvalidFilterValue struct {
	Field string
	Value string
	Kind  Kind
}

func (e *InvalidFilterValue) Error() string {
	return fmt.Sprintf("invalid value %q for %s: expected %s", e.Value, e.Field, e.Kind)
}

// QueryExecutionError wraps a store failure with the statement that caused it.
// Callers log it and never return it to clients.
type QueryExecutionError struct {
	Statement string
	Err       error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Statement, e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}
