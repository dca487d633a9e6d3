package adapters

import (
	"context"
	"database/sql"
)

// DBAdapter is the storage capability the version store runs on.
// Query executes one read statement, Exec one write or DDL statement. Both honor ctx cancellation,
// and errors are the driver's native errors.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows iterates the rows of a query. Close must be called after iterating.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the effect of an Exec.
type DBResult interface {
	RowsAffected() (int64, error)
}

// sqlConn is satisfied by *sql.DB and by *sqlx.DB, which embeds it.
type sqlConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
