package store

import (
	"errors"
	"fmt"

	"github.com/johnwards/backoffice/internal/domain"
	"github.com/johnwards/backoffice/internal/query"
)

// ErrNotFound is returned for entities that are not in the catalog.
var ErrNotFound = errors.New("entity not found")

// ErrNoReport is returned for entities that have no informe.
var ErrNoReport = fmt.Errorf("report: %w", ErrNotFound)

// ValidationError reports a request parameter the store cannot use.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Options bounds list and report queries.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	TrendPeriods int
}

// MaxTrendPeriods caps the number of periods a report may return.
const MaxTrendPeriods = 60

// Store holds all sub-stores used by the application.
type Store struct {
	Catalog   *domain.Catalog
	Paginator query.Paginator
	Records   RecordStore
	Reports   ReportStore
}

// New creates a Store whose sub-stores run statements through exec.
func New(catalog *domain.Catalog, exec query.Executor, d query.Dialect, opts Options) *Store {
	pg := query.Paginator{DefaultLimit: opts.DefaultLimit, MaxLimit: opts.MaxLimit}
	return &Store{
		Catalog:   catalog,
		Paginator: pg,
		Records:   NewSQLRecordStore(catalog, exec, d, pg),
		Reports:   NewSQLReportStore(catalog, exec, d, opts.TrendPeriods),
	}
}

// Params are the filter inputs shared by lists and reports.
type Params struct {
	Entity string
	// Value returns the raw value of a filter parameter, or "" when absent.
	Value  func(param string) string
	Search string
}

func (p Params) value(param string) string {
	if p.Value == nil {
		return ""
	}
	return p.Value(param)
}

func lookup(c *domain.Catalog, name string) (*domain.Entity, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return e, nil
}
