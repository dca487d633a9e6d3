package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/config"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"

	versionTableSuffix = "_versions"
	connectTimeout     = 3 * time.Second
)

// Wrapper abstracts over the different adapter types.
type Wrapper interface {
	GetStore() postgresengine.Store
	Exec(ctx context.Context, statement string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	replica *pgxpool.Pool
	store   postgresengine.Store
}

func (w *PGXPoolWrapper) GetStore() postgresengine.Store {
	return w.store
}

func (w *PGXPoolWrapper) Exec(ctx context.Context, statement string) error {
	_, err := w.pool.Exec(ctx, statement)
	return err
}

func (w *PGXPoolWrapper) Close() {
	if w.replica != nil {
		w.replica.Close()
	}

	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db    *sql.DB
	store postgresengine.Store
}

func (w *SQLDBWrapper) GetStore() postgresengine.Store {
	return w.store
}

func (w *SQLDBWrapper) Exec(ctx context.Context, statement string) error {
	_, err := w.db.ExecContext(ctx, statement)
	return err
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db    *sqlx.DB
	store postgresengine.Store
}

func (w *SQLXWrapper) GetStore() postgresengine.Store {
	return w.store
}

func (w *SQLXWrapper) Exec(ctx context.Context, statement string) error {
	_, err := w.db.ExecContext(ctx, statement)
	return err
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the wrapper for the adapter selected by ADAPTER_TYPE.
// The test is skipped if the test database can not be reached.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool := connectPGXPool(t, ctx, config.PostgresPGXPoolSingleConfig)

		store, err := postgresengine.NewStoreFromPGXPool(connPool, options...)
		assert.NoError(t, err, "error creating the store")

		return &PGXPoolWrapper{pool: connPool, store: store}

	case typeSQLDB:
		db, err := config.PostgresSQLDBSingleConfig(ctx)
		if err != nil {
			t.Skipf("test database not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		assert.NoError(t, err, "error creating the store")

		return &SQLDBWrapper{db: db, store: store}

	case typeSQLXDB:
		db, err := config.PostgresSQLXSingleConfig(ctx)
		if err != nil {
			t.Skipf("test database not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		assert.NoError(t, err, "error creating the store")

		return &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CreatePGXWrapperWithReplica creates a pgx wrapper whose store reads from a replica pool
// for eventually consistent queries. The test is skipped if a database can not be reached.
func CreatePGXWrapperWithReplica(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	primary := connectPGXPool(t, ctx, config.PostgresPGXPoolSingleConfig)
	replica := connectPGXPool(t, ctx, config.PostgresPGXPoolReplicaConfig)

	store, err := postgresengine.NewStoreFromPGXPoolAndReplica(primary, replica, options...)
	assert.NoError(t, err, "error creating the store")

	return &PGXPoolWrapper{pool: primary, replica: replica, store: store}
}

func connectPGXPool(
	t testing.TB,
	ctx context.Context,
	poolConfig func() (*pgxpool.Config, error),
) *pgxpool.Pool {

	t.Helper()

	cfg, err := poolConfig()
	assert.NoError(t, err, "error parsing the DB pool config in test setup")

	connPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Skipf("test database not reachable: %v", err)
	}

	if pingErr := connPool.Ping(ctx); pingErr != nil {
		connPool.Close()
		t.Skipf("test database not reachable: %v", pingErr)
	}

	return connPool
}

// GivenCleanCollection creates the collection's version table if needed and removes all its versions.
func GivenCleanCollection(t testing.TB, wrapper Wrapper, collection string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	err := wrapper.GetStore().CreateVersionTable(ctx, collection)
	assert.NoError(t, err, "error creating the version table")

	table := pgx.Identifier{collection + versionTableSuffix}.Sanitize()
	err = wrapper.Exec(ctx, "TRUNCATE TABLE "+table)
	assert.NoError(t, err, "error cleaning up the version table")
}
