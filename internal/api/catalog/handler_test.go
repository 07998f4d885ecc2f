package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/api/catalog"
	"github.com/johnwards/backoffice/internal/domain"
)

func TestListEntities(t *testing.T) {
	c, err := domain.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	mux := http.NewServeMux()
	catalog.RegisterRoutes(mux, c)
	mux.HandleFunc("GET /api/v1/{entity}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	api.Chain(mux, api.RequestID()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entidades", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success bool                `json:"success"`
		Data    []domain.Descriptor `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data) != len(c.Entities()) {
		t.Fatalf("got %d entities, want %d", len(body.Data), len(c.Entities()))
	}

	byName := map[string]domain.Descriptor{}
	for _, d := range body.Data {
		byName[d.Name] = d
	}
	facturas, ok := byName["facturas"]
	if !ok {
		t.Fatal("facturas missing")
	}
	if facturas.Report == nil || len(facturas.Report.Dimensions) != 3 {
		t.Errorf("facturas report = %+v", facturas.Report)
	}
	if facturas.DefaultSort != "fecha" || facturas.DefaultDir != "DESC" {
		t.Errorf("facturas default sort = %s %s", facturas.DefaultSort, facturas.DefaultDir)
	}
	if byName["clientes"].Report != nil {
		t.Error("clientes should not describe a report")
	}
}
