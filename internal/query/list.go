package query

import (
	"fmt"
	"strings"
)

// Lister builds paginated list statements over an engine-owned select list
// and FROM clause.
type Lister struct {
	Name   string
	Select string
	From   string
}

// Statement renders one list page. The total row count rides along as a
// window column so a single round trip yields rows and pagination metadata.
// LIMIT and OFFSET placeholders follow the filter placeholders.
func (l Lister) Statement(q CompiledQuery, orderBy string, page Page) Statement {
	ph, params := q.Append(page.Limit, page.Offset)
	sql := fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS %s FROM %s %s %s LIMIT %s OFFSET %s",
		l.Select, TotalCountColumn, l.From, q.Where, orderBy, ph[0], ph[1])
	return Statement{Name: l.Name + ".list", SQL: squeeze(sql), Params: params}
}

// CountStatement counts the filtered rows. It is used when a page lies past
// the end and the window column is therefore unavailable.
func (l Lister) CountStatement(q CompiledQuery) Statement {
	sql := fmt.Sprintf("SELECT COUNT(*) AS %s FROM %s %s", TotalCountColumn, l.From, q.Where)
	return Statement{Name: l.Name + ".count", SQL: squeeze(sql), Params: q.Params}
}

func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
