package query_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnwards/backoffice/internal/query"
)

var facturaSorts = map[string]query.Column{
	"fecha":  query.Col("f", "fecha"),
	"nro":    query.Col("f", "nro"),
	"total":  query.Col("f", "total"),
	"estado": query.Col("f", "estado"),
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		direction string
		wantCol   query.Column
		wantDir   query.Direction
	}{
		{"known key ascending", "total", "asc", query.Col("f", "total"), query.Asc},
		{"known key upper case", "nro", "DESC", query.Col("f", "nro"), query.Desc},
		{"unknown key falls back", "f.total; DROP TABLE facturas", "asc", query.Col("f", "fecha"), query.Asc},
		{"empty key falls back", "", "", query.Col("f", "fecha"), query.Desc},
		{"physical name is not a key", "f.total", "asc", query.Col("f", "fecha"), query.Asc},
		{"invalid direction becomes DESC", "nro", "sideways", query.Col("f", "nro"), query.Desc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, dir := query.Resolve(tt.key, facturaSorts, "fecha", tt.direction)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.wantDir, dir)
		})
	}
}

func TestResolveNeverReturnsRequestedKey(t *testing.T) {
	allowed := map[query.Column]bool{}
	for _, c := range facturaSorts {
		allowed[c] = true
	}
	for _, key := range []string{"id", "cliente", "1", "fecha desc", "' OR 1=1 --", "FECHA"} {
		col, _ := query.Resolve(key, facturaSorts, "fecha", "asc")
		assert.True(t, allowed[col], "key %q resolved to %v", key, col)
		assert.Equal(t, query.Col("f", "fecha"), col)
	}
}

func TestParseDirection(t *testing.T) {
	d, err := query.ParseDirection(" desc ")
	assert.NoError(t, err)
	assert.Equal(t, query.Desc, d)

	_, err = query.ParseDirection("random()")
	assert.True(t, errors.Is(err, query.ErrInvalidSortDirection))
}

func TestSortSpecOrderBy(t *testing.T) {
	spec := query.SortSpec{
		Allowlist:  facturaSorts,
		DefaultKey: "fecha",
		Tiebreak:   query.Col("f", "id"),
	}

	assert.Equal(t, "ORDER BY f.total ASC, f.id ASC", spec.OrderBy("total", "asc", nil))
	assert.Equal(t, "ORDER BY f.fecha DESC, f.id DESC", spec.OrderBy("nope", "nope", nil))

	spec.Allowlist = map[string]query.Column{"id": query.Col("f", "id")}
	spec.DefaultKey = "id"
	assert.Equal(t, "ORDER BY f.id ASC", spec.OrderBy("id", "asc", nil))
}
