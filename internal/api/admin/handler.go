package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/database"
	"github.com/johnwards/backoffice/internal/seed"
)

// Handler serves the admin API at /_admin/.
type Handler struct {
	db *database.Handle
}

// Reset deletes all rows and re-runs the demo seed.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ResetData(r.Context(), h.db); err != nil {
		h.fail(w, r, "reset", err)
		return
	}
	api.WriteData(w, map[string]string{"status": "ok"})
}

// SeedData runs the demo seed without clearing existing data first. It does
// nothing when data is already present.
func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	if err := seed.Seed(r.Context(), h.db.SQL, h.db.Dialect); err != nil {
		h.fail(w, r, "seed", err)
		return
	}
	api.WriteData(w, map[string]string{"status": "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	corrID := api.CorrelationID(r.Context())
	slog.ErrorContext(r.Context(), "admin operation failed", "op", op, "correlationId", corrID, "error", err)
	api.WriteError(w, http.StatusInternalServerError, api.NewInternalError(corrID))
}

// ResetData clears all data tables and re-seeds.
// Exported for reuse by tests or other callers.
func ResetData(ctx context.Context, db *database.Handle) error {
	if err := database.Truncate(ctx, db.SQL); err != nil {
		return err
	}
	return seed.Seed(ctx, db.SQL, db.Dialect)
}
