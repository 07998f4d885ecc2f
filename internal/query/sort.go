package query

import (
	"fmt"
	"strings"
)

// Direction is a literal sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
}

// SortSpec describes the sortable surface of one entity.
type SortSpec struct {
	Allowlist  map[string]Column // public key -> physical column
	DefaultKey string
	Tiebreak   Column
}

// Resolve maps requestedKey to an allowlisted column. Unknown keys fall back to
// defaultKey and invalid directions to DESC, so the result is always one of a
// fixed set of literals.
func Resolve(requestedKey string, allowlist map[string]Column, defaultKey, direction string) (Column, Direction) {
	col, ok := allowlist[requestedKey]
	if !ok {
		col = allowlist[defaultKey]
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		dir = Desc
	}
	return col, dir
}

// OrderBy renders the ORDER BY clause for a request, appending the tiebreak
// column when it differs from the resolved one.
func (s SortSpec) OrderBy(requestedKey, direction string, aliases Aliases) string {
	col, dir := Resolve(requestedKey, s.Allowlist, s.DefaultKey, direction)
	clause := fmt.Sprintf("ORDER BY %s %s", col.Render(aliases), dir)
	if s.Tiebreak.Name != "" && s.Tiebreak != col {
		clause += fmt.Sprintf(", %s %s", s.Tiebreak.Render(aliases), dir)
	}
	return clause
}
