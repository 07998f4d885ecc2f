package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/backoffice/internal/observability"
	"github.com/johnwards/backoffice/internal/query"
)

// sample returns the value of the series of name carrying label=value, or -1.
func sample(t *testing.T, m *observability.Metrics, name, label, value string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, s := range f.GetMetric() {
			for _, l := range s.GetLabel() {
				if l.GetName() != label || l.GetValue() != value {
					continue
				}
				if c := s.GetCounter(); c != nil {
					return c.GetValue()
				}
				return float64(s.GetHistogram().GetSampleCount())
			}
		}
	}
	return -1
}

func TestInstrumentExecutorSuccess(t *testing.T) {
	m := observability.NewMetrics()
	inner := query.ExecutorFunc(func(context.Context, query.Statement) ([]query.Row, error) {
		return []query.Row{{"n": int64(1)}}, nil
	})
	exec := observability.InstrumentExecutor(inner, m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rows, err := exec.Query(context.Background(), query.Statement{Name: "facturas.list", SQL: "SELECT 1"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.Equal(t, float64(1), sample(t, m, "backoffice_query_duration_seconds", "statement", "facturas.list"))
	assert.Equal(t, float64(-1), sample(t, m, "backoffice_query_errors_total", "statement", "facturas.list"))
}

func TestInstrumentExecutorLogsFailures(t *testing.T) {
	m := observability.NewMetrics()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	boom := errors.New("relation does not exist")
	inner := query.ExecutorFunc(func(_ context.Context, st query.Statement) ([]query.Row, error) {
		return nil, &query.QueryExecutionError{Statement: st.Name, Err: boom}
	})
	exec := observability.InstrumentExecutor(inner, m, logger)

	_, err := exec.Query(context.Background(), query.Statement{Name: "facturas.resumen", SQL: "SELECT COUNT(*) FROM facturas f"})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, float64(1), sample(t, m, "backoffice_query_errors_total", "statement", "facturas.resumen"))
	out := buf.String()
	assert.Contains(t, out, "query failed")
	assert.Contains(t, out, "statement=facturas.resumen")
	assert.Contains(t, out, "SELECT COUNT(*) FROM facturas f")
	assert.Contains(t, out, "relation does not exist")
}

func TestInstrumentExecutorIgnoresCancellation(t *testing.T) {
	m := observability.NewMetrics()
	var buf bytes.Buffer
	inner := query.ExecutorFunc(func(ctx context.Context, _ query.Statement) ([]query.Row, error) {
		return nil, ctx.Err()
	})
	exec := observability.InstrumentExecutor(inner, m, slog.New(slog.NewTextHandler(&buf, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := exec.Query(ctx, query.Statement{Name: "facturas.tendencias"})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, float64(-1), sample(t, m, "backoffice_query_errors_total", "statement", "facturas.tendencias"))
	assert.NotContains(t, buf.String(), "query failed")
}

func TestMetricsHandler(t *testing.T) {
	m := observability.NewMetrics()
	m.Requests.WithLabelValues("GET", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `backoffice_http_requests_total{method="GET",status="200"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsIndependentRegistries(t *testing.T) {
	a, b := observability.NewMetrics(), observability.NewMetrics()
	a.Requests.WithLabelValues("GET", "500").Inc()

	assert.Equal(t, float64(1), sample(t, a, "backoffice_http_requests_total", "status", "500"))
	assert.Equal(t, float64(-1), sample(t, b, "backoffice_http_requests_total", "status", "500"))
}
