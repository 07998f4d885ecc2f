package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Bookkeeping columns computed only to derive totals; never returned.
const (
	TotalCountColumn = "total_count"
	UniverseColumn   = "universo"
)

// Projector shapes raw store rows for the response.
type Projector struct {
	Drop    []string // internal-only columns removed from every row
	Numeric []string // columns coerced to int64/float64
	Dates   []string // columns formatted as YYYY-MM-DD
	Bools   []string // columns coerced to bool; SQLite stores 0/1
}

// Project returns shaped copies of rows. The result is never nil.
func (p Projector) Project(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, p.Row(r))
	}
	return out
}

// Row shapes a single row.
func (p Projector) Row(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, c := range p.Drop {
		delete(out, c)
	}
	for _, c := range p.Numeric {
		if v, ok := out[c]; ok {
			out[c] = Number(v)
		}
	}
	for _, c := range p.Dates {
		if v, ok := out[c]; ok {
			out[c] = DateValue(v)
		}
	}
	for _, c := range p.Bools {
		if v, ok := out[c]; ok {
			out[c] = Bool(v)
		}
	}
	return out
}

// Number coerces driver numeric representations to int64 or float64. Values
// that are not numeric are returned unchanged; NULL stays nil.
func Number(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int64, float64:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int16:
		return int64(t)
	case float32:
		return float64(t)
	case bool:
		return t
	case []byte:
		return Number(string(t))
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return decimalNumber(d)
		}
		return t
	case decimal.Decimal:
		return decimalNumber(t)
	case pgtype.Numeric:
		if !t.Valid || t.NaN || t.InfinityModifier != pgtype.Finite {
			return nil
		}
		return decimalNumber(decimal.NewFromBigInt(t.Int, t.Exp))
	}
	return v
}

func decimalNumber(d decimal.Decimal) any {
	if d.IsInteger() && d.Abs().LessThan(decimal.New(1, 18)) {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}

// Float returns v as float64, treating NULL and non-numeric values as 0.
func Float(v any) float64 {
	switch t := Number(v).(type) {
	case int64:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

// Int64 returns v as int64, treating NULL and non-numeric values as 0.
func Int64(v any) int64 {
	switch t := Number(v).(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	}
	return 0
}

// Bool coerces integer and textual truth values to bool. NULL stays nil and
// unrecognised values are returned unchanged.
func Bool(v any) any {
	switch t := v.(type) {
	case bool, nil:
		return t
	case []byte:
		return Bool(string(t))
	case string:
		if b, err := parseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
		return t
	}
	switch n := Number(v).(type) {
	case int64:
		return n != 0
	case float64:
		return n != 0
	}
	return v
}

// DateValue formats dates and timestamps as YYYY-MM-DD. Strings that start
// with a date are truncated to it; anything else is returned unchanged.
func DateValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(DateLayout)
	case Date:
		return t.String()
	case pgtype.Date:
		if !t.Valid {
			return nil
		}
		return t.Time.Format(DateLayout)
	case []byte:
		return DateValue(string(t))
	case string:
		if len(t) >= len(DateLayout) {
			if _, err := time.Parse(DateLayout, t[:len(DateLayout)]); err == nil {
				return t[:len(DateLayout)]
			}
		}
		return t
	}
	return v
}

// TotalCount reads the window-function total from the first row, or 0 when
// there are no rows.
func TotalCount(rows []Row) int64 {
	if len(rows) == 0 {
		return 0
	}
	return Int64(rows[0][TotalCountColumn])
}
