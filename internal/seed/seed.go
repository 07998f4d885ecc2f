package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/johnwards/backoffice/internal/query"
)

// Seed inserts the default demo data set into the database.
func Seed(ctx context.Context, db *sql.DB, d query.Dialect) error {
	return SeedWith(ctx, db, d, DefaultSeed)
}

// SeedWith inserts a demo data set drawn from the given random seed. It is
// idempotent: when branches already exist nothing is written. Reference data
// goes first so documents can point at it.
func SeedWith(ctx context.Context, db *sql.DB, d query.Dialect, seed uint64) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sucursales`).Scan(&count); err != nil {
		return fmt.Errorf("count sucursales: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	w := &writer{ctx: ctx, tx: tx, d: d}

	if err := reference(w); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("seed reference data: %w", err)
	}
	if err := documents(w, NewGenerator(seed)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("seed documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// writer inserts rows through the dialect's placeholders and bind rules.
type writer struct {
	ctx context.Context
	tx  *sql.Tx
	d   query.Dialect
}

func (w *writer) insert(table string, cols []string, vals ...any) error {
	ph := make([]string, len(vals))
	args := make([]any, len(vals))
	for i, v := range vals {
		ph[i] = w.d.Placeholder(i + 1)
		args[i] = w.d.Bind(v)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
	if _, err := w.tx.ExecContext(w.ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
