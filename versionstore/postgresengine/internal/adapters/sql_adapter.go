package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// SQLAdapter implements DBAdapter for database/sql connections, used directly or through sqlx.
// Version payloads are scanned as []byte and timestamps as time.Time, both work with lib/pq.
type SQLAdapter struct {
	conn sqlConn
}

// NewSQLAdapter creates an adapter for a sql.DB.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}

// NewSQLXAdapter creates an adapter for a sqlx.DB. Queries are plain SQL strings built by the store,
// so the embedded sql.DB methods are sufficient.
func NewSQLXAdapter(db *sqlx.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{Rows: rows}, nil
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.conn.ExecContext(ctx, query)
}

// stdRows adapts sql.Rows, only Next, Scan, Err and Close are used.
type stdRows struct {
	*sql.Rows
}
