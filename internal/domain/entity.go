package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/johnwards/backoffice/internal/query"
)

// Filter maps a request parameter onto a predicate over a base-table column.
type Filter struct {
	Param    string
	Column   string
	Operator query.Operator
	Kind     query.Kind
}

// Report configures the informe of an entity.
type Report struct {
	Date       string // base-table column bucketed into periods
	Amount     string // base-table column summed; empty counts only
	Measure    query.TrendMeasure
	Dimensions []query.Dimension
}

// Entity declares a listable table. Everything here is engine-owned SQL;
// request input only ever selects among it or becomes a bound parameter.
type Entity struct {
	Name  string // URL segment
	Title string
	Area  string

	Table  string
	Alias  string
	Select string // select list over Alias and Joins
	Joins  string // joins the select list and sort keys need

	Sorts        map[string]query.Column
	DefaultSort  string
	DefaultOrder query.Direction

	Search  []string // base-table columns
	Filters []Filter

	Numeric []string
	Dates   []string
	Bools   []string

	Report *Report
}

// Validate checks the entity can be compiled safely. Filter, search and report
// columns must live on the base table so the report universe can re-alias them.
func (e *Entity) Validate() error {
	var errs []error
	for _, id := range []string{e.Name, e.Table, e.Alias} {
		if !query.ValidIdentifier(id) {
			errs = append(errs, fmt.Errorf("invalid identifier %q", id))
		}
	}
	if e.Select == "" {
		errs = append(errs, errors.New("empty select list"))
	}
	if _, ok := e.Sorts[e.DefaultSort]; !ok {
		errs = append(errs, fmt.Errorf("default sort %q is not a sort key", e.DefaultSort))
	}
	if e.DefaultOrder != query.Asc && e.DefaultOrder != query.Desc {
		errs = append(errs, fmt.Errorf("default order %q", e.DefaultOrder))
	}
	for _, c := range e.Search {
		if !query.ValidIdentifier(c) {
			errs = append(errs, fmt.Errorf("search column %q", c))
		}
	}

	params := map[string]bool{}
	for _, f := range e.Filters {
		if params[f.Param] {
			errs = append(errs, fmt.Errorf("duplicate filter %q", f.Param))
		}
		params[f.Param] = true
		if !query.ValidIdentifier(f.Param) || !query.ValidIdentifier(f.Column) {
			errs = append(errs, fmt.Errorf("filter %q on column %q", f.Param, f.Column))
		}
		switch f.Operator {
		case query.Eq, query.Gte, query.Lte:
		default:
			errs = append(errs, fmt.Errorf("filter %q: operator %q", f.Param, f.Operator))
		}
	}

	if r := e.Report; r != nil {
		if !query.ValidIdentifier(r.Date) {
			errs = append(errs, fmt.Errorf("report date column %q", r.Date))
		}
		if r.Amount != "" && !query.ValidIdentifier(r.Amount) {
			errs = append(errs, fmt.Errorf("report amount column %q", r.Amount))
		}
		keys := map[string]bool{}
		for _, d := range r.Dimensions {
			if !strings.HasPrefix(d.Key, "por_") || keys[d.Key] || d.Label == "" {
				errs = append(errs, fmt.Errorf("report dimension %q", d.Key))
			}
			keys[d.Key] = true
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("entity %s: %w", e.Name, err)
	}
	return nil
}

func (e *Entity) col(name string) query.Column {
	return query.Col(e.Alias, name)
}

// Candidates builds the entity's filter candidates from raw parameter values.
// get returns "" for parameters that were not supplied.
func (e *Entity) Candidates(get func(param string) string) []query.FilterCandidate {
	out := make([]query.FilterCandidate, 0, len(e.Filters))
	for _, f := range e.Filters {
		out = append(out, query.FilterCandidate{
			Field:    f.Param,
			Column:   e.col(f.Column),
			Operator: f.Operator,
			Value:    get(f.Param),
			Kind:     f.Kind,
		})
	}
	return out
}

// SearchSpec returns the free-text search over the entity's search columns,
// or nil when it has none.
func (e *Entity) SearchSpec(term string) *query.SearchSpec {
	if len(e.Search) == 0 {
		return nil
	}
	cols := make([]query.Column, len(e.Search))
	for i, c := range e.Search {
		cols[i] = e.col(c)
	}
	return &query.SearchSpec{Columns: cols, Term: term}
}

// SortSpec returns the sort allowlist with the primary key as tiebreak.
func (e *Entity) SortSpec() query.SortSpec {
	return query.SortSpec{
		Allowlist:  e.Sorts,
		DefaultKey: e.DefaultSort,
		Tiebreak:   e.col("id"),
	}
}

// SortKeys returns the public sort keys in lexical order.
func (e *Entity) SortKeys() []string {
	keys := make([]string, 0, len(e.Sorts))
	for k := range e.Sorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lister returns the list statement builder.
func (e *Entity) Lister() query.Lister {
	return query.Lister{
		Name:   e.Name,
		Select: e.Select,
		From:   strings.TrimSpace(e.Table + " " + e.Alias + " " + e.Joins),
	}
}

// Projector returns the row shaper for list results.
func (e *Entity) Projector() query.Projector {
	return query.Projector{
		Drop:    []string{query.TotalCountColumn},
		Numeric: e.Numeric,
		Dates:   e.Dates,
		Bools:   e.Bools,
	}
}

// Aggregator returns the report statement builder. It panics if the entity
// has no report.
func (e *Entity) Aggregator(d query.Dialect) query.Aggregator {
	a := query.Aggregator{
		Dialect: d,
		Table:   e.Table,
		Role:    e.Alias,
		Date:    e.col(e.Report.Date),
	}
	if e.Report.Amount != "" {
		a.Amount = e.col(e.Report.Amount)
	}
	return a
}
