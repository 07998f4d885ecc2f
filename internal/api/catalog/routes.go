package catalog

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/domain"
)

// RegisterRoutes adds the entity catalog endpoint to the given mux. It must
// share a mux with the entity routes so that "entidades" wins over {entity}.
func RegisterRoutes(mux *http.ServeMux, c *domain.Catalog) {
	h := &Handler{catalog: c}

	mux.HandleFunc("GET /api/v1/entidades", h.List)
}
