package reports

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/query"
	"github.com/johnwards/backoffice/internal/store"
)

// Handler handles entity report requests.
type Handler struct {
	store *store.Store
}

// Report handles GET /api/v1/{entity}/informe.
//
// Accepts the same filters and search as the list endpoint, plus periodo
// (mes or anio) and periodos, the number of trend periods returned.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	g, err := query.ParseGranularity(q.Get("periodo"))
	if err != nil {
		api.WriteStoreError(w, r, &store.ValidationError{Field: "periodo", Message: "must be mes or anio"})
		return
	}
	periods, err := query.Int("periodos", q.Get("periodos"), 0)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	res, err := h.store.Reports.Report(r.Context(), store.ReportParams{
		Params: store.Params{
			Entity: r.PathValue("entity"),
			Value:  q.Get,
			Search: q.Get("search"),
		},
		Granularity: g,
		Periods:     periods,
	})
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	api.WriteData(w, res)
}
