package query_test

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/backoffice/internal/query"
)

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

// placeholderIndexes returns the distinct placeholder indexes in clause.
func placeholderIndexes(clause string) []int {
	seen := map[int]bool{}
	var out []int
	for _, m := range pgPlaceholder.FindAllStringSubmatch(clause, -1) {
		n, _ := strconv.Atoi(m[1])
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func assertContiguous(t *testing.T, q query.CompiledQuery) {
	t.Helper()
	idx := placeholderIndexes(q.Where)
	require.Len(t, idx, len(q.Params), "clause %q", q.Where)
	for i, n := range idx {
		assert.Equal(t, i+1, n, "clause %q", q.Where)
	}
}

func TestCompile_Predicates(t *testing.T) {
	f := query.Col("f", "fecha")
	e := query.Col("f", "estado")
	s := query.Col("f", "sucursal_id")

	tests := []struct {
		name       string
		candidates []query.FilterCandidate
		search     *query.SearchSpec
		wantWhere  string
		wantParams []any
	}{
		{
			name:      "no filters",
			wantWhere: "",
		},
		{
			name: "absent values are skipped",
			candidates: []query.FilterCandidate{
				{Field: "estado", Column: e, Operator: query.Eq, Value: ""},
				{Field: "sucursal_id", Column: s, Operator: query.Eq, Value: nil},
				{Field: "ptr", Column: s, Operator: query.Eq, Value: (*int64)(nil)},
			},
			wantWhere: "",
		},
		{
			name: "zero and false are present",
			candidates: []query.FilterCandidate{
				{Field: "sucursal_id", Column: s, Operator: query.Eq, Value: int64(0)},
				{Field: "activo", Column: query.Col("p", "activo"), Operator: query.Eq, Value: false},
			},
			wantWhere:  "WHERE f.sucursal_id = $1 AND p.activo = $2",
			wantParams: []any{int64(0), false},
		},
		{
			name: "raw strings are coerced to their kind",
			candidates: []query.FilterCandidate{
				{Field: "sucursal_id", Column: s, Operator: query.Eq, Value: "0", Kind: query.KindInt},
				{Field: "activo", Column: query.Col("p", "activo"), Operator: query.Eq, Value: "false", Kind: query.KindBool},
			},
			wantWhere:  "WHERE f.sucursal_id = $1 AND p.activo = $2",
			wantParams: []any{int64(0), false},
		},
		{
			name: "date range keeps input order",
			candidates: []query.FilterCandidate{
				{Field: "fecha_hasta", Column: f, Operator: query.Lte, Value: "2024-03-31", Kind: query.KindDate},
				{Field: "fecha_desde", Column: f, Operator: query.Gte, Value: "2024-01-01", Kind: query.KindDate},
			},
			wantWhere: "WHERE f.fecha <= $1 AND f.fecha >= $2",
			wantParams: []any{
				time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "search shares one placeholder",
			candidates: []query.FilterCandidate{
				{Field: "estado", Column: e, Operator: query.Eq, Value: "pagada"},
			},
			search: &query.SearchSpec{
				Columns: []query.Column{query.Col("f", "nro"), query.Col("f", "observaciones")},
				Term:    "  A-100 ",
			},
			wantWhere: `WHERE f.estado = $1 AND (CAST(f.nro AS TEXT) ILIKE $2 ESCAPE '\' OR CAST(f.observaciones AS TEXT) ILIKE $2 ESCAPE '\')`,
			wantParams: []any{"pagada", "%A-100%"},
		},
		{
			name: "blank search term adds nothing",
			search: &query.SearchSpec{
				Columns: []query.Column{query.Col("f", "nro")},
				Term:    "   ",
			},
			wantWhere: "",
		},
		{
			name: "wildcards in the term are escaped",
			search: &query.SearchSpec{
				Columns: []query.Column{query.Col("f", "nro")},
				Term:    `50%_off\`,
			},
			wantWhere:  `WHERE (CAST(f.nro AS TEXT) ILIKE $1 ESCAPE '\')`,
			wantParams: []any{`%50\%\_off\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := query.Compile(query.Postgres{}, tt.candidates, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWhere, q.Where)
			assert.Equal(t, tt.wantParams, q.Params)
			assertContiguous(t, q)
		})
	}
}

func TestCompile_InvalidFilterValue(t *testing.T) {
	_, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "estado", Column: query.Col("f", "estado"), Operator: query.Eq, Value: "abierta"},
		{Field: "cliente_id", Column: query.Col("f", "cliente_id"), Operator: query.Eq, Value: "doce", Kind: query.KindInt},
	}, nil)

	var invalid *query.InvalidFilterValue
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, "cliente_id", invalid.Field)
	assert.Equal(t, "doce", invalid.Value)
	assert.Equal(t, query.KindInt, invalid.Kind)
}

func TestCompile_RejectsUnknownOperator(t *testing.T) {
	_, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "x", Column: query.Col("f", "x"), Operator: "; DROP", Value: "1"},
	}, nil)
	require.Error(t, err)
}

func TestCompile_PlaceholderCountMatchesParams(t *testing.T) {
	values := []any{nil, "", "x", int64(0), false, "2024-01-01"}
	cols := []query.Column{
		query.Col("f", "a"), query.Col("f", "b"), query.Col("f", "c"),
	}
	terms := []string{"", "abc"}

	// Every combination of three candidates drawn from values, with and
	// without a search term.
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				for _, term := range terms {
					cands := []query.FilterCandidate{
						{Field: "a", Column: cols[0], Operator: query.Eq, Value: a},
						{Field: "b", Column: cols[1], Operator: query.Gte, Value: b},
						{Field: "c", Column: cols[2], Operator: query.Lte, Value: c},
					}
					q, err := query.Compile(query.Postgres{}, cands, &query.SearchSpec{Columns: cols, Term: term})
					require.NoError(t, err)
					assertContiguous(t, q)

					want := 0
					for _, v := range []any{a, b, c} {
						if !query.Absent(v) {
							want++
						}
					}
					if term != "" {
						want++
					}
					assert.Len(t, q.Params, want)
				}
			}
		}
	}
}

func TestCompile_NestedPointers(t *testing.T) {
	var missing *int
	n := 7
	present := &n

	q, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "a", Column: query.Col("f", "a"), Operator: query.Eq, Value: &missing},
		{Field: "b", Column: query.Col("f", "b"), Operator: query.Eq, Value: &present},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "WHERE f.b = $1", q.Where)
	assert.Equal(t, []any{7}, q.Params)
}

func TestCompile_RenderForOtherAliases(t *testing.T) {
	q, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "estado", Column: query.Col("f", "estado"), Operator: query.Eq, Value: "pagada"},
	}, &query.SearchSpec{Columns: []query.Column{query.Col("f", "nro")}, Term: "x"})
	require.NoError(t, err)

	rendered := q.Render(query.Aliases{"f": "u_f"})
	assert.Equal(t, `WHERE u_f.estado = $1 AND (CAST(u_f.nro AS TEXT) ILIKE $2 ESCAPE '\')`, rendered)
	assert.Equal(t, placeholderIndexes(q.Where), placeholderIndexes(rendered))
}

func TestCompile_SQLiteDialect(t *testing.T) {
	q, err := query.Compile(query.SQLite{}, []query.FilterCandidate{
		{Field: "fecha_desde", Column: query.Col("f", "fecha"), Operator: query.Gte, Value: "2024-01-01", Kind: query.KindDate},
	}, &query.SearchSpec{Columns: []query.Column{query.Col("f", "nro"), query.Col("f", "motivo")}, Term: "nc"})
	require.NoError(t, err)

	assert.Equal(t, `WHERE f.fecha >= ?1 AND (casefold(CAST(f.nro AS TEXT)) LIKE casefold(?2) ESCAPE '\' OR casefold(CAST(f.motivo AS TEXT)) LIKE casefold(?2) ESCAPE '\')`, q.Where)
	assert.Equal(t, []any{"2024-01-01", "%nc%"}, q.Params)
}

func TestAppendDoesNotMutate(t *testing.T) {
	q, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "estado", Column: query.Col("f", "estado"), Operator: query.Eq, Value: "pagada"},
	}, nil)
	require.NoError(t, err)

	ph, params := q.Append(5, 10)
	assert.Equal(t, []string{"$2", "$3"}, ph)
	assert.Equal(t, []any{"pagada", 5, 10}, params)
	assert.Len(t, q.Params, 1)
}

// Filters {fecha_desde, estado}, search "factura" over [nro, motivo], page 2
// of 5 rows.
func TestEndToEndListScenario(t *testing.T) {
	q, err := query.Compile(query.Postgres{}, []query.FilterCandidate{
		{Field: "fecha_desde", Column: query.Col("n", "fecha"), Operator: query.Gte, Value: "2024-01-01", Kind: query.KindDate},
		{Field: "estado", Column: query.Col("n", "estado"), Operator: query.Eq, Value: "activo"},
	}, &query.SearchSpec{
		Columns: []query.Column{query.Col("n", "nro"), query.Col("n", "motivo")},
		Term:    "factura",
	})
	require.NoError(t, err)

	assert.Len(t, q.Params, 3)
	assert.Equal(t, 2, strings.Count(q.Where, " AND "))

	page := query.Paginator{}.Paginate(2, 5)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 5, page.Offset)

	l := query.Lister{Name: "notas_credito", Select: "n.id, n.nro", From: "notas_credito n"}
	st := l.Statement(q, "ORDER BY n.fecha DESC", page)
	assert.True(t, strings.HasSuffix(st.SQL, "LIMIT $4 OFFSET $5"), st.SQL)
	require.Len(t, st.Params, 5)
	assert.Equal(t, 5, st.Params[3])
	assert.Equal(t, 5, st.Params[4])
}
