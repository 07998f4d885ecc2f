package catalog

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/domain"
)

// Handler serves the query vocabulary of every entity.
type Handler struct {
	catalog *domain.Catalog
}

// List handles GET /api/v1/entidades.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	api.WriteData(w, h.catalog.Describe())
}
