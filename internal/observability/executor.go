package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/johnwards/backoffice/internal/query"
)

// InstrumentExecutor wraps exec so every statement is timed, and every
// failure is counted and logged with its SQL. Cancellations from the caller
// are neither counted nor logged as errors.
func InstrumentExecutor(exec query.Executor, m *Metrics, logger *slog.Logger) query.Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return query.ExecutorFunc(func(ctx context.Context, st query.Statement) ([]query.Row, error) {
		start := time.Now()
		rows, err := exec.Query(ctx, st)
		m.QueryDuration.WithLabelValues(st.Name).Observe(time.Since(start).Seconds())
		if err == nil {
			return rows, nil
		}

		if errors.Is(err, context.Canceled) {
			logger.DebugContext(ctx, "query canceled", "statement", st.Name)
			return nil, err
		}
		m.QueryErrors.WithLabelValues(st.Name).Inc()
		logger.ErrorContext(ctx, "query failed",
			"statement", st.Name,
			"sql", st.SQL,
			"params", len(st.Params),
			"error", err,
		)
		return nil, err
	})
}
