package records_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/api/records"
	"github.com/johnwards/backoffice/internal/domain"
	"github.com/johnwards/backoffice/internal/store"
	"github.com/johnwards/backoffice/internal/testhelpers"
)

type listResponse struct {
	Success    bool             `json:"success"`
	Data       []map[string]any `json:"data"`
	Pagination api.Pagination   `json:"pagination"`
}

func setupServer(t *testing.T) (*httptest.Server, *testhelpers.Queryer) {
	t.Helper()
	h := testhelpers.NewSeededHandle(t)

	catalog, err := domain.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	s := store.New(catalog, h.Executor(), h.Dialect, store.Options{DefaultLimit: 20, MaxLimit: 100, TrendPeriods: 12})

	mux := http.NewServeMux()
	records.RegisterRoutes(mux, s)

	srv := httptest.NewServer(api.Chain(mux, api.RequestID(), api.Recovery()))
	t.Cleanup(srv.Close)
	return srv, testhelpers.NewQueryer(t, h.SQL)
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, body
}

func list(t *testing.T, srv *httptest.Server, path string) listResponse {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status = %d", path, resp.StatusCode)
	}
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestListEndpoint(t *testing.T) {
	srv, db := setupServer(t)

	out := list(t, srv, "/api/v1/facturas")

	if !out.Success {
		t.Error("success = false")
	}
	total := db.Int("SELECT COUNT(*) FROM facturas")
	if out.Pagination.Total != total {
		t.Errorf("total = %d, want %d", out.Pagination.Total, total)
	}
	if out.Pagination.Page != 1 || out.Pagination.Limit != 20 {
		t.Errorf("pagination = %+v, want page 1 limit 20", out.Pagination)
	}
	if len(out.Data) != 20 {
		t.Errorf("rows = %d, want 20", len(out.Data))
	}
	if _, ok := out.Data[0]["total_count"]; ok {
		t.Error("total_count leaked into rows")
	}
}

func TestListEndpointFiltersAndPaging(t *testing.T) {
	srv, db := setupServer(t)

	want := db.Int("SELECT COUNT(*) FROM facturas WHERE estado = 'pendiente' AND fecha BETWEEN '2025-01-01' AND '2025-06-30'")
	out := list(t, srv, "/api/v1/facturas?estado=pendiente&fecha_desde=2025-01-01&fecha_hasta=2025-06-30&page=2&limit=5&sort_by=total&sort_order=asc")

	if out.Pagination.Total != want {
		t.Errorf("total = %d, want %d", out.Pagination.Total, want)
	}
	if out.Pagination.Page != 2 || out.Pagination.Limit != 5 {
		t.Errorf("pagination = %+v", out.Pagination)
	}
	if want > 5 && len(out.Data) == 0 {
		t.Error("second page is empty")
	}
	for i, r := range out.Data {
		if r["estado"] != "pendiente" {
			t.Errorf("row %d estado = %v", i, r["estado"])
		}
		if i > 0 && r["total"].(float64) < out.Data[i-1]["total"].(float64) {
			t.Errorf("rows not sorted by total ASC at %d", i)
		}
	}
}

func TestListEndpointLimitClamped(t *testing.T) {
	srv, _ := setupServer(t)

	out := list(t, srv, "/api/v1/facturas?limit=100000")
	if out.Pagination.Limit != 100 {
		t.Errorf("limit = %d, want 100", out.Pagination.Limit)
	}

	out = list(t, srv, "/api/v1/facturas?limit=0&page=-3")
	if out.Pagination.Limit != 1 || out.Pagination.Page != 1 || len(out.Data) != 1 {
		t.Errorf("pagination = %+v rows = %d, want page 1 limit 1", out.Pagination, len(out.Data))
	}
}

func TestListEndpointInvalidFilter(t *testing.T) {
	srv, _ := setupServer(t)

	for _, tc := range []struct{ path, field string }{
		{"/api/v1/facturas?fecha_desde=ayer", "fecha_desde"},
		{"/api/v1/facturas?sucursal_id=uno", "sucursal_id"},
		{"/api/v1/facturas?page=dos", "page"},
		{"/api/v1/facturas?limit=many", "limit"},
	} {
		resp, body := get(t, srv, tc.path)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.path, resp.StatusCode)
			continue
		}
		if body["category"] != api.CategoryValidationError || body["success"] != false {
			t.Errorf("%s: body = %v", tc.path, body)
		}
		errs, _ := body["errors"].([]any)
		if len(errs) != 1 || errs[0].(map[string]any)["field"] != tc.field {
			t.Errorf("%s: errors = %v, want field %s", tc.path, body["errors"], tc.field)
		}
	}
}

func TestListEndpointInjectionIsInert(t *testing.T) {
	srv, db := setupServer(t)

	out := list(t, srv, "/api/v1/clientes?sort_by=nombre;DROP%20TABLE%20clientes&sort_order=sideways&search=%27%20OR%201%3D1%20--")
	if out.Pagination.Total != 0 {
		t.Errorf("total = %d, want 0", out.Pagination.Total)
	}
	if n := db.Int("SELECT COUNT(*) FROM clientes"); n == 0 {
		t.Error("clientes emptied")
	}
}

func TestListEndpointUnknownEntity(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := get(t, srv, "/api/v1/usuarios")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body["category"] != api.CategoryObjectNotFound {
		t.Errorf("category = %v", body["category"])
	}
	if resp.Header.Get(api.CorrelationIDHeader) != body["correlationId"] {
		t.Errorf("correlationId %v does not match header", body["correlationId"])
	}
}
