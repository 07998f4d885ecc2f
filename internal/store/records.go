package store

import (
	"context"

	"github.com/johnwards/backoffice/internal/domain"
	"github.com/johnwards/backoffice/internal/query"
)

// ListParams carries one list request.
type ListParams struct {
	Params
	SortBy    string
	SortOrder string // empty uses the entity's default order
	Page      int
	Limit     int
}

// ListResult is one page of an entity list.
type ListResult struct {
	Rows       []query.Row
	Page       query.Page
	Total      int64
	TotalPages int
}

// RecordStore defines the interface for filtered entity lists.
type RecordStore interface {
	List(ctx context.Context, p ListParams) (*ListResult, error)
}

// SQLRecordStore implements RecordStore over a query.Executor.
type SQLRecordStore struct {
	catalog   *domain.Catalog
	exec      query.Executor
	dialect   query.Dialect
	paginator query.Paginator
}

// NewSQLRecordStore creates a new SQLRecordStore.
func NewSQLRecordStore(catalog *domain.Catalog, exec query.Executor, d query.Dialect, pg query.Paginator) *SQLRecordStore {
	return &SQLRecordStore{catalog: catalog, exec: exec, dialect: d, paginator: pg}
}

// List returns one page of rows matching the request filters. The total comes
// from the window column of the page itself; only a page past the end costs a
// second COUNT statement.
func (s *SQLRecordStore) List(ctx context.Context, p ListParams) (*ListResult, error) {
	e, err := lookup(s.catalog, p.Entity)
	if err != nil {
		return nil, err
	}

	q, err := query.Compile(s.dialect, e.Candidates(p.value), e.SearchSpec(p.Search))
	if err != nil {
		return nil, err
	}

	order := p.SortOrder
	if order == "" {
		order = string(e.DefaultOrder)
	}
	page := s.paginator.Paginate(p.Page, p.Limit)
	lister := e.Lister()

	rows, err := s.exec.Query(ctx, lister.Statement(q, e.SortSpec().OrderBy(p.SortBy, order, nil), page))
	if err != nil {
		return nil, err
	}

	total := query.TotalCount(rows)
	if len(rows) == 0 && page.Offset > 0 {
		counted, err := s.exec.Query(ctx, lister.CountStatement(q))
		if err != nil {
			return nil, err
		}
		total = query.TotalCount(counted)
	}

	return &ListResult{
		Rows:       e.Projector().Project(rows),
		Page:       page,
		Total:      total,
		TotalPages: query.TotalPages(total, page.Limit),
	}, nil
}
