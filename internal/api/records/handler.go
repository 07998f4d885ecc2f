package records

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/query"
	"github.com/johnwards/backoffice/internal/store"
)

// Handler handles entity list requests.
type Handler struct {
	store *store.Store
}

// List handles GET /api/v1/{entity}.
//
// Query parameters: page, limit, search, sort_by, sort_order and any filter
// the entity declares. Unknown parameters are ignored.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := query.Int("page", q.Get("page"), 1)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	limit, err := h.store.Paginator.Limit(q.Get("limit"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	res, err := h.store.Records.List(r.Context(), store.ListParams{
		Params: store.Params{
			Entity: r.PathValue("entity"),
			Value:  q.Get,
			Search: q.Get("search"),
		},
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	api.WritePage(w, res.Rows, api.Pagination{
		Page:       res.Page.Page,
		Limit:      res.Page.Limit,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}
