package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/query"
	"github.com/johnwards/backoffice/internal/store"
)

func TestNewNotFoundError(t *testing.T) {
	err := api.NewNotFoundError("object not found", "abc-123")

	if err.Success {
		t.Error("Success = true, want false")
	}
	if err.Category != api.CategoryObjectNotFound {
		t.Errorf("Category = %q, want %q", err.Category, api.CategoryObjectNotFound)
	}
	if err.CorrelationID != "abc-123" {
		t.Errorf("CorrelationID = %q, want %q", err.CorrelationID, "abc-123")
	}
	if err.Message != "object not found" {
		t.Errorf("Message = %q, want %q", err.Message, "object not found")
	}
}

func TestNewValidationError(t *testing.T) {
	details := []api.ErrorDetail{
		{Message: "expected date", Field: "fecha_desde"},
	}
	err := api.NewValidationError("invalid input", "def-456", details)

	if err.Category != api.CategoryValidationError {
		t.Errorf("Category = %q, want %q", err.Category, api.CategoryValidationError)
	}
	if len(err.Errors) != 1 {
		t.Fatalf("Errors length = %d, want 1", len(err.Errors))
	}
	if err.Errors[0].Field != "fecha_desde" {
		t.Errorf("Errors[0].Field = %q, want %q", err.Errors[0].Field, "fecha_desde")
	}
}

func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	apiErr := api.NewNotFoundError("not found", "test-id")

	api.WriteError(rec, http.StatusNotFound, apiErr)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusNotFound)
	}

	ct := rec.Header().Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var result map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if result["success"] != false {
		t.Errorf("success = %v, want false", result["success"])
	}
	if result["correlationId"] != "test-id" {
		t.Errorf("correlationId = %v, want %q", result["correlationId"], "test-id")
	}
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
		field    string
	}{
		{
			name:     "invalid filter",
			err:      &query.InvalidFilterValue{Field: "sucursal_id", Value: "x", Kind: query.KindInt},
			status:   http.StatusBadRequest,
			category: api.CategoryValidationError,
			field:    "sucursal_id",
		},
		{
			name:     "validation",
			err:      &store.ValidationError{Field: "periodos", Message: "must be positive"},
			status:   http.StatusBadRequest,
			category: api.CategoryValidationError,
			field:    "periodos",
		},
		{
			name:     "unknown entity",
			err:      fmt.Errorf("%q: %w", "usuarios", store.ErrNotFound),
			status:   http.StatusNotFound,
			category: api.CategoryObjectNotFound,
		},
		{
			name:     "no report",
			err:      store.ErrNoReport,
			status:   http.StatusNotFound,
			category: api.CategoryObjectNotFound,
		},
		{
			name:     "query failure",
			err:      &query.QueryExecutionError{Statement: "facturas.list", Err: errors.New("password authentication failed")},
			status:   http.StatusInternalServerError,
			category: api.CategoryInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/facturas", http.NoBody)

			api.WriteStoreError(rec, req, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := rec.Body.String()
			var result api.Error
			if err := json.Unmarshal([]byte(body), &result); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if result.Category != tt.category {
				t.Errorf("category = %q, want %q", result.Category, tt.category)
			}
			if tt.field != "" && (len(result.Errors) != 1 || result.Errors[0].Field != tt.field) {
				t.Errorf("errors = %+v, want field %q", result.Errors, tt.field)
			}
			if strings.Contains(body, "password") || strings.Contains(body, "facturas.list") {
				t.Errorf("response leaks internals: %s", body)
			}
		})
	}
}

func TestWriteStoreErrorCanceledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/facturas/informe", http.NoBody).WithContext(ctx)

	api.WriteStoreError(rec, req, fmt.Errorf("report: %w", context.Canceled))

	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want nothing written", rec.Body.String())
	}
}
