package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	driverPostgres         = "postgres"
	sqlMaxOpenConnsFactor  = 2
	sqlMaxIdleConnsDivisor = 2
)

var ErrConnectingFailed = errors.New("connecting to the database failed")

// PGXPoolConfig creates the pool config of the primary database.
func (c DatabaseConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	return c.pgxPoolConfig(c.DSN)
}

// ReplicaPGXPoolConfig creates the pool config of the replica. It returns nil without a replica DSN.
func (c DatabaseConfig) ReplicaPGXPoolConfig() (*pgxpool.Config, error) {
	if c.ReplicaDSN == "" {
		return nil, nil
	}

	return c.pgxPoolConfig(c.ReplicaDSN)
}

func (c DatabaseConfig) pgxPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	dbConfig.MaxConns = c.MaxConns
	dbConfig.MinConns = c.MinConns
	dbConfig.MaxConnLifetime = c.MaxConnLifetime
	dbConfig.MaxConnIdleTime = c.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = c.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// OpenSQLDB opens and pings the primary database through database/sql with the lib/pq driver.
func (c DatabaseConfig) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverPostgres, c.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.configureSQLPool(db)

	if pingErr := c.ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// OpenSQLX opens and pings the primary database through sqlx with the lib/pq driver.
func (c DatabaseConfig) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverPostgres, c.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.configureSQLPool(db.DB)

	if pingErr := c.ping(ctx, db.DB); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

func (c DatabaseConfig) configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(int(c.MaxConns) * sqlMaxOpenConnsFactor)
	db.SetMaxIdleConns(max(int(c.MaxConns)/sqlMaxIdleConnsDivisor, 1))
	db.SetConnMaxLifetime(c.MaxConnLifetime)
	db.SetConnMaxIdleTime(c.MaxConnIdleTime)
}

func (c DatabaseConfig) ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.ConnectTimeout)
	defer cancel()

	return db.PingContext(pingCtx)
}
