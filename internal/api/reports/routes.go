package reports

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/store"
)

// RegisterRoutes adds the informe endpoint to the given mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{store: s}

	mux.HandleFunc("GET /api/v1/{entity}/informe", h.Report)
}
