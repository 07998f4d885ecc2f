package query

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Operator is a comparison allowed in a filter predicate.
type Operator string

// Supported filter operators.
const (
	Eq  Operator = "="
	Gte Operator = ">="
	Lte Operator = "<="
)

var identRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether s is a plain lower-case SQL identifier.
func ValidIdentifier(s string) bool {
	return identRE.MatchString(s)
}

// Column names a physical column, optionally qualified by a table role. The
// role is mapped to a concrete alias when the clause is rendered, so one
// compiled query can be instantiated for several alias sets.
type Column struct {
	Table string
	Name  string
}

// Col is shorthand for Column{Table: table, Name: name}.
func Col(table, name string) Column {
	return Column{Table: table, Name: name}
}

// Render qualifies the column with the alias mapped to its role.
func (c Column) Render(aliases Aliases) string {
	if c.Table == "" {
		return c.Name
	}
	if a, ok := aliases[c.Table]; ok {
		return a + "." + c.Name
	}
	return c.Table + "." + c.Name
}

func (c Column) String() string {
	return c.Render(nil)
}

// Aliases maps table roles to the aliases used in one statement.
type Aliases map[string]string

// FilterCandidate is one optional predicate. It only materializes when Value
// is present (see Absent).
type FilterCandidate struct {
	Field    string // public parameter name, used in error messages
	Column   Column
	Operator Operator
	Value    any
	Kind     Kind // raw string values are coerced to Kind
}

// SearchSpec is a free-text match across Columns.
type SearchSpec struct {
	Columns []Column
	Term    string
}

type predicate struct {
	column Column
	op     Operator
	index  int
	search []Column
}

// CompiledQuery is a WHERE clause plus its ordered parameters. Where uses the
// columns' own roles as aliases; Render re-instantiates it for other aliases
// while keeping the same placeholders.
type CompiledQuery struct {
	Where  string
	Params []any

	preds   []predicate
	dialect Dialect
}

// Compile turns candidates and an optional search into a CompiledQuery.
// Predicates appear in input order, the search group last.
func Compile(d Dialect, candidates []FilterCandidate, search *SearchSpec) (CompiledQuery, error) {
	q := CompiledQuery{dialect: d}

	for _, c := range candidates {
		if Absent(c.Value) {
			continue
		}
		switch c.Operator {
		case Eq, Gte, Lte:
		default:
			return CompiledQuery{}, fmt.Errorf("filter %s: unsupported operator %q", c.Field, c.Operator)
		}

		v := deref(c.Value)
		if raw, ok := v.(string); ok && c.Kind != KindString && c.Kind != "" {
			coerced, err := Coerce(c.Field, raw, c.Kind)
			if err != nil {
				return CompiledQuery{}, err
			}
			v = coerced
		}

		q.Params = append(q.Params, d.Bind(v))
		q.preds = append(q.preds, predicate{column: c.Column, op: c.Operator, index: len(q.Params)})
	}

	if search != nil && len(search.Columns) > 0 {
		if term := strings.TrimSpace(search.Term); term != "" {
			q.Params = append(q.Params, "%"+escapeLike(term)+"%")
			q.preds = append(q.preds, predicate{search: search.Columns, index: len(q.Params)})
		}
	}

	q.Where = q.Render(nil)
	return q, nil
}

// Render builds the WHERE clause for the given alias set. It returns the empty
// string when there are no predicates.
func (q CompiledQuery) Render(aliases Aliases) string {
	if len(q.preds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.preds))
	for _, p := range q.preds {
		ph := q.dialect.Placeholder(p.index)
		if p.search != nil {
			ors := make([]string, len(p.search))
			for i, col := range p.search {
				ors[i] = q.dialect.Contains(col.Render(aliases), ph)
			}
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", p.column.Render(aliases), p.op, ph))
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

// Append binds extra values after the filter parameters, returning their
// placeholders and a fresh parameter slice. q itself is not modified.
func (q CompiledQuery) Append(vals ...any) (placeholders []string, params []any) {
	params = make([]any, len(q.Params), len(q.Params)+len(vals))
	copy(params, q.Params)
	placeholders = make([]string, len(vals))
	for i, v := range vals {
		params = append(params, q.dialect.Bind(v))
		placeholders[i] = q.dialect.Placeholder(len(params))
	}
	return placeholders, params
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// deref follows pointers to the underlying value, returning nil when any link
// in the chain is nil.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
