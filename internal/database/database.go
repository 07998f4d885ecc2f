package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"

	"github.com/johnwards/backoffice/internal/config"
	"github.com/johnwards/backoffice/internal/query"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(query.SQLiteFoldFunc, 1, foldCase)
}

// foldCase applies Unicode case folding so LIKE matches "Á" with "á".
func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return cases.Fold().String(v), nil
	case []byte:
		return cases.Fold().String(string(v)), nil
	default:
		return v, nil
	}
}

// Handle bundles the open store with the dialect its statements must use.
// Pool is only set for PostgreSQL; SQL is always usable.
type Handle struct {
	SQL     *sql.DB
	Pool    *pgxpool.Pool
	Dialect query.Dialect
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig) (*Handle, error) {
	switch cfg.Driver {
	case "sqlite", "":
		db, err := OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Handle{SQL: db, Dialect: query.SQLite{}}, nil
	case "postgres":
		return openPostgres(ctx, cfg)
	}
	return nil, fmt.Errorf("open database: unsupported driver %q", cfg.Driver)
}

// OpenSQLite opens a SQLite database at the given DSN and configures it for
// production use: WAL mode, foreign keys enabled, busy timeout of 5s.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite to avoid locking issues.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	return db, nil
}

func openPostgres(ctx context.Context, cfg config.DBConfig) (*Handle, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns) //nolint:gosec // validated positive and small
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Handle{
		SQL:     stdlib.OpenDBFromPool(pool),
		Pool:    pool,
		Dialect: query.Postgres{},
	}, nil
}

// Executor returns the statement executor for the handle, preferring the
// native pgx pool when there is one.
func (h *Handle) Executor() query.Executor {
	if h.Pool != nil {
		return query.NewPoolExecutor(h.Pool)
	}
	return query.NewDBExecutor(h.SQL)
}

// Ping checks the store is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	return h.SQL.PingContext(ctx)
}

// Close releases the handle's connections.
func (h *Handle) Close() error {
	err := h.SQL.Close()
	if h.Pool != nil {
		h.Pool.Close()
	}
	return err
}

// Migrate runs all pending schema migrations, each inside a transaction.
// Migrations are tracked in the schema_migrations table by version number.
func Migrate(ctx context.Context, db *sql.DB, d query.Dialect) error {
	if d == nil {
		return errors.New("migrate: nil dialect")
	}

	// Outside any transaction so it is always available for version checks.
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	check := "SELECT COUNT(*) FROM schema_migrations WHERE version = " + d.Placeholder(1)
	record := "INSERT INTO schema_migrations (version) VALUES (" + d.Placeholder(1) + ")"

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.QueryRowContext(ctx, check, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}

		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, record, version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}

	return nil
}

// DataTables lists every data table in foreign-key-safe deletion order.
var DataTables = []string{
	"ordenes_servicio",
	"ordenes_compra",
	"notas_credito",
	"facturas",
	"productos",
	"proveedores",
	"clientes",
	"sucursales",
}

// Truncate deletes all rows from the data tables, leaving the schema intact.
func Truncate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin truncate: %w", err)
	}
	for _, table := range DataTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // table names are hardcoded constants
			_ = tx.Rollback()
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit truncate: %w", err)
	}
	return nil
}
