package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnwards/backoffice/internal/api"
	"github.com/johnwards/backoffice/internal/api/admin"
	"github.com/johnwards/backoffice/internal/api/catalog"
	"github.com/johnwards/backoffice/internal/api/records"
	"github.com/johnwards/backoffice/internal/api/reports"
	"github.com/johnwards/backoffice/internal/config"
	"github.com/johnwards/backoffice/internal/database"
	"github.com/johnwards/backoffice/internal/domain"
	"github.com/johnwards/backoffice/internal/observability"
	"github.com/johnwards/backoffice/internal/seed"
	"github.com/johnwards/backoffice/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	h, err := openMigrated(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	if cfg.Seed {
		if err := seed.Seed(ctx, h.SQL, h.Dialect); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	handler, err := newHandler(cfg, h, observability.NewMetrics())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting backoffice server", "addr", cfg.Addr, "driver", h.Dialect.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newHandler builds the complete routed and middleware-wrapped handler.
func newHandler(cfg config.Config, h *database.Handle, m *observability.Metrics) (http.Handler, error) {
	cat, err := domain.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	exec := observability.InstrumentExecutor(h.Executor(), m, slog.Default())
	s := store.New(cat, exec, h.Dialect, store.Options{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
		TrendPeriods: cfg.Query.TrendPeriods,
	})

	mux := http.NewServeMux()

	catalog.RegisterRoutes(mux, cat)
	records.RegisterRoutes(mux, s)
	reports.RegisterRoutes(mux, s)
	admin.RegisterRoutes(mux, h)

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := h.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			api.WriteError(w, http.StatusServiceUnavailable, &api.Error{
				Message:       "store unavailable",
				CorrelationID: api.CorrelationID(r.Context()),
				Category:      api.CategoryInternalError,
			})
			return
		}
		api.WriteData(w, map[string]string{"status": "ok"})
	})

	// Catch-all: return 404 in the error envelope.
	mux.Handle("/", api.NotFound())

	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.Metrics(m),
		api.JSONContentType(),
		api.Logging(),
	), nil
}
