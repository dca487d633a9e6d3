package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
//
// With a replica pool, queries of a context marked with versionstore.WithEventualConsistency read from
// the replica. Exec (version saves and DDL) always runs on the primary.
type PGXAdapter struct {
	primary *pgxpool.Pool
	replica *pgxpool.Pool
}

func NewPGXAdapter(primary *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{primary: primary}
}

func NewPGXAdapterWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{primary: primary, replica: replica}
}

func (p *PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.readPool(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxRows{rows: rows}, nil
}

func (p *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.primary.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxResult(tag), nil
}

// readPool picks the pool a query runs on.
func (p *PGXAdapter) readPool(ctx context.Context) *pgxpool.Pool {
	if p.replica != nil && versionstore.GetConsistencyLevel(ctx) == versionstore.EventualConsistency {
		return p.replica
	}

	return p.primary
}

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool             { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgxRows) Err() error             { return r.rows.Err() }

// Close releases the connection. pgx reports iteration errors through Err, not Close.
func (r pgxRows) Close() error {
	r.rows.Close()
	return nil
}

// pgxResult adapts the command tag, which always knows its row count.
type pgxResult pgconn.CommandTag

func (r pgxResult) RowsAffected() (int64, error) {
	return pgconn.CommandTag(r).RowsAffected(), nil
}
