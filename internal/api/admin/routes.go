package admin

import (
	"net/http"

	"github.com/johnwards/backoffice/internal/database"
)

// RegisterRoutes registers all admin API endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, db *database.Handle) {
	h := &Handler{db: db}

	mux.HandleFunc("POST /_admin/reset", h.Reset)
	mux.HandleFunc("POST /_admin/seed", h.SeedData)
}
