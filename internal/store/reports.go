package store

import (
	"context"
	"encoding/json"

	"github.com/johnwards/backoffice/internal/domain"
	"github.com/johnwards/backoffice/internal/query"
)

// ReportParams carries one informe request.
type ReportParams struct {
	Params
	Granularity query.Granularity
	Periods     int // 0 uses the store default
}

// Breakdown is the grouped aggregate of one report dimension.
type Breakdown struct {
	Key    string
	Groups []query.AggregateGroup
}

// ReportResult is a complete informe. It is only ever built from a full set
// of successful statements.
type ReportResult struct {
	Summary     query.Summary
	Breakdowns  []Breakdown
	Trends      []query.TrendPoint // newest first
	Granularity query.Granularity
}

// SeriesKey is the envelope key of the trend series.
func (r *ReportResult) SeriesKey() string {
	if r.Granularity == query.Year {
		return "tendencias_anuales"
	}
	return "tendencias_mensuales"
}

// MarshalJSON flattens breakdowns into one key per dimension.
func (r *ReportResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Breakdowns)+2)
	out["resumen"] = r.Summary
	for _, b := range r.Breakdowns {
		out[b.Key] = b.Groups
	}
	out[r.SeriesKey()] = r.Trends
	return json.Marshal(out)
}

// ReportStore defines the interface for entity informes.
type ReportStore interface {
	Report(ctx context.Context, p ReportParams) (*ReportResult, error)
}

// SQLReportStore implements ReportStore over a query.Executor.
type SQLReportStore struct {
	catalog *domain.Catalog
	exec    query.Executor
	dialect query.Dialect
	periods int
}

// NewSQLReportStore creates a new SQLReportStore. periods is the default
// number of trend periods returned.
func NewSQLReportStore(catalog *domain.Catalog, exec query.Executor, d query.Dialect, periods int) *SQLReportStore {
	if periods <= 0 {
		periods = 12
	}
	return &SQLReportStore{catalog: catalog, exec: exec, dialect: d, periods: periods}
}

// Report runs the summary, series and every breakdown concurrently over the
// same compiled filters. Any failure fails the whole report.
func (s *SQLReportStore) Report(ctx context.Context, p ReportParams) (*ReportResult, error) {
	e, err := lookup(s.catalog, p.Entity)
	if err != nil {
		return nil, err
	}
	if e.Report == nil {
		return nil, ErrNoReport
	}

	periods := p.Periods
	switch {
	case periods < 0:
		return nil, &ValidationError{Field: "periodos", Message: "must be positive"}
	case periods == 0:
		periods = s.periods
	case periods > MaxTrendPeriods:
		periods = MaxTrendPeriods
	}
	g := p.Granularity
	if g == "" {
		g = query.Month
	}

	q, err := query.Compile(s.dialect, e.Candidates(p.value), e.SearchSpec(p.Search))
	if err != nil {
		return nil, err
	}

	agg := e.Aggregator(s.dialect)
	stmts := []query.Statement{agg.SummaryStatement(q), agg.SeriesStatement(q, g)}
	for _, dim := range e.Report.Dimensions {
		stmts = append(stmts, agg.GroupStatement(dim, q))
	}

	results, err := query.Run(ctx, s.exec, stmts...)
	if err != nil {
		return nil, err
	}

	res := &ReportResult{
		Summary:     summary(results[0]),
		Trends:      query.Recent(query.ClassifyTrends(query.Series(results[1], e.Report.Measure)), periods),
		Granularity: g,
	}
	for i, dim := range e.Report.Dimensions {
		res.Breakdowns = append(res.Breakdowns, Breakdown{Key: dim.Key, Groups: query.Groups(results[2+i])})
	}
	return res, nil
}

func summary(rows []query.Row) query.Summary {
	if len(rows) == 0 {
		return query.Summary{}
	}
	r := rows[0]
	return query.Summary{
		Count:     query.Int64(r["total_registros"]),
		Sum:       query.Round2(query.Float(r["monto_total"])),
		Average:   query.Round2(query.Float(r["monto_promedio"])),
		FirstDate: query.DateValue(r["primera_fecha"]),
		LastDate:  query.DateValue(r["ultima_fecha"]),
	}
}
