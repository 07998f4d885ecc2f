package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Trend classifies a period against its predecessor.
type Trend string

// Trend values.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendMeasure selects which aggregate a series compares.
type TrendMeasure string

// Trend measures.
const (
	ByCount TrendMeasure = "count"
	BySum   TrendMeasure = "sum"
)

// AggregateGroup is one row of a grouped breakdown.
type AggregateGroup struct {
	Label      string  `json:"etiqueta"`
	Count      int64   `json:"cantidad"`
	Sum        float64 `json:"total"`
	Average    float64 `json:"promedio"`
	Percentage float64 `json:"porcentaje"`
}

// TrendPoint is one period of a series.
type TrendPoint struct {
	Period string  `json:"periodo"`
	Count  int64   `json:"cantidad"`
	Sum    float64 `json:"total"`
	Value  float64 `json:"valor"`
	Trend  Trend   `json:"tendencia"`
}

// Summary is the scalar header of a report.
type Summary struct {
	Count     int64   `json:"total_registros"`
	Sum       float64 `json:"monto_total"`
	Average   float64 `json:"monto_promedio"`
	FirstDate any     `json:"primera_fecha"`
	LastDate  any     `json:"ultima_fecha"`
}

// Dimension is a grouping of the universe. Label and Joins are engine-owned
// SQL; request input never reaches them.
type Dimension struct {
	Key   string // envelope key, e.g. "por_estado"
	Label string // label expression, already null-coalesced
	Joins string // joins the label expression needs
}

// Aggregator builds report statements over one table. Filter columns must be
// qualified with Role so the universe subquery can be re-aliased.
type Aggregator struct {
	Dialect Dialect
	Table   string
	Role    string
	Amount  Column // optional; zero value aggregates counts only
	Date    Column
}

func (a Aggregator) universeAliases() Aliases {
	return Aliases{a.Role: "u_" + a.Role}
}

func (a Aggregator) amountExprs() (sum, avg string) {
	if a.Amount.Name == "" {
		return "0", "0"
	}
	col := a.Amount.String()
	return fmt.Sprintf("COALESCE(SUM(%s), 0)", col), fmt.Sprintf("AVG(%s)", col)
}

// GroupStatement counts and sums the universe grouped by dim. Every row also
// carries the universe size, computed by a subquery over the same compiled
// filters rendered for a separate alias.
func (a Aggregator) GroupStatement(dim Dimension, q CompiledQuery) Statement {
	sum, avg := a.amountExprs()
	sql := fmt.Sprintf(
		"SELECT %s AS etiqueta, COUNT(*) AS cantidad, %s AS total, %s AS promedio, "+
			"(SELECT COUNT(*) FROM %s u_%s %s) AS %s "+
			"FROM %s %s %s %s GROUP BY %s ORDER BY cantidad DESC, etiqueta ASC",
		dim.Label, sum, avg,
		a.Table, a.Role, q.Render(a.universeAliases()), UniverseColumn,
		a.Table, a.Role, dim.Joins, q.Where, dim.Label,
	)
	return Statement{Name: a.Table + "." + dim.Key, SQL: squeeze(sql), Params: q.Params}
}

// SummaryStatement computes the report header over the universe.
func (a Aggregator) SummaryStatement(q CompiledQuery) Statement {
	sum, avg := a.amountExprs()
	first, last := "NULL", "NULL"
	if a.Date.Name != "" {
		first, last = "MIN("+a.Date.String()+")", "MAX("+a.Date.String()+")"
	}
	sql := fmt.Sprintf(
		"SELECT COUNT(*) AS total_registros, %s AS monto_total, %s AS monto_promedio, "+
			"%s AS primera_fecha, %s AS ultima_fecha FROM %s %s %s",
		sum, avg, first, last, a.Table, a.Role, q.Where,
	)
	return Statement{Name: a.Table + ".resumen", SQL: squeeze(sql), Params: q.Params}
}

// SeriesStatement groups the universe by period. Rows without a date are
// excluded from the series.
func (a Aggregator) SeriesStatement(q CompiledQuery, g Granularity) Statement {
	sum, _ := a.amountExprs()
	bucket := a.Dialect.Bucket(a.Date.String(), g)
	where := q.Where
	if where == "" {
		where = "WHERE " + a.Date.String() + " IS NOT NULL"
	} else {
		where += " AND " + a.Date.String() + " IS NOT NULL"
	}
	sql := fmt.Sprintf(
		"SELECT %s AS periodo, COUNT(*) AS cantidad, %s AS total FROM %s %s %s GROUP BY %s",
		bucket, sum, a.Table, a.Role, where, bucket,
	)
	return Statement{Name: a.Table + ".tendencias", SQL: squeeze(sql), Params: q.Params}
}

// Groups converts grouped rows into AggregateGroups with percentages of the
// universe reported alongside them.
func Groups(rows []Row) []AggregateGroup {
	groups := make([]AggregateGroup, len(rows))
	if len(rows) == 0 {
		return groups
	}
	counts := make([]int64, len(rows))
	for i, r := range rows {
		label := ""
		if v := r["etiqueta"]; v != nil {
			label = fmt.Sprint(v)
		}
		counts[i] = Int64(r["cantidad"])
		groups[i] = AggregateGroup{
			Label:   label,
			Count:   counts[i],
			Sum:     Round2(Float(r["total"])),
			Average: Round2(Float(r["promedio"])),
		}
	}
	pcts := Percentages(counts, Int64(rows[0][UniverseColumn]))
	for i := range groups {
		groups[i].Percentage = pcts[i]
	}
	return groups
}

// Percentages returns 100*count/total for each count with two decimals. When
// the counts partition total exactly, the largest-remainder method makes the
// result sum to exactly 100. A non-positive total yields all zeros.
func Percentages(counts []int64, total int64) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	const scale = 10000 // hundredths of a percent

	units := make([]int64, len(counts))
	rems := make([]int64, len(counts))
	var assigned, sum int64
	for i, c := range counts {
		units[i] = c * scale / total
		rems[i] = c * scale % total
		assigned += units[i]
		sum += c
	}

	if sum == total {
		idx := make([]int, len(counts))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(x, y int) bool { return rems[idx[x]] > rems[idx[y]] })
		for k := int64(0); k < scale-assigned && int(k) < len(idx); k++ {
			units[idx[k]]++
		}
	} else {
		for i := range units {
			if 2*rems[i] >= total {
				units[i]++
			}
		}
	}

	for i, u := range units {
		out[i], _ = decimal.New(u, -2).Float64()
	}
	return out
}

// Series converts period rows into trend points valued by measure.
func Series(rows []Row, measure TrendMeasure) []TrendPoint {
	points := make([]TrendPoint, 0, len(rows))
	for _, r := range rows {
		v := r["periodo"]
		if v == nil {
			continue
		}
		p := TrendPoint{
			Period: fmt.Sprint(v),
			Count:  Int64(r["cantidad"]),
			Sum:    Round2(Float(r["total"])),
		}
		p.Value = float64(p.Count)
		if measure == BySum {
			p.Value = p.Sum
		}
		points = append(points, p)
	}
	return points
}

// ClassifyTrends sorts points by period ascending and compares each to its
// immediate predecessor in one pass. The first point is stable.
func ClassifyTrends(points []TrendPoint) []TrendPoint {
	out := make([]TrendPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	for i := range out {
		switch {
		case i == 0 || out[i].Value == out[i-1].Value:
			out[i].Trend = TrendStable
		case out[i].Value > out[i-1].Value:
			out[i].Trend = TrendUp
		default:
			out[i].Trend = TrendDown
		}
	}
	return out
}

// Recent returns the last n points of an ascending series, newest first.
// Trends must already be classified so truncation cannot affect them.
func Recent(points []TrendPoint, n int) []TrendPoint {
	if n <= 0 || n > len(points) {
		n = len(points)
	}
	out := make([]TrendPoint, 0, n)
	for i := len(points) - 1; i >= len(points)-n; i-- {
		out = append(out, points[i])
	}
	return out
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}

// Run executes statements concurrently and returns their rows in order. The
// first failure cancels the others and is returned; there are no partial
// results.
func Run(ctx context.Context, exec Executor, stmts ...Statement) ([][]Row, error) {
	results := make([][]Row, len(stmts))
	g, gctx := errgroup.WithContext(ctx)
	for i, st := range stmts {
		g.Go(func() error {
			rows, err := exec.Query(gctx, st)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
