// Package dbx holds the tiny DB abstraction shared by storage code: a
// minimal interface satisfied by both *sql.DB and *sql.Tx, so repositories
// can run against either.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the mirror store.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
