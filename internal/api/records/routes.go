package records

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/store"
)

// RegisterRoutes adds the entity list endpoint to the given mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{store: s}

	mux.HandleFunc("GET /api/v1/{entity}", h.List)
}
