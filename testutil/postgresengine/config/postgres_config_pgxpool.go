package config

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testMaxConnections    = int32(10)
	testMinConnections    = int32(1)
	testMaxConnLifetime   = time.Hour
	testMaxConnIdleTime   = time.Minute * 5
	testHealthCheckPeriod = time.Minute
	testConnectTimeout    = time.Second * 2
)

// PostgresPGXPoolSingleConfig creates a pgxpool.Config for the test database.
func PostgresPGXPoolSingleConfig() (*pgxpool.Config, error) {
	return pgxPoolConfig(PostgresSingleDSN())
}

// PostgresPGXPoolReplicaConfig creates a pgxpool.Config for the replica test database.
func PostgresPGXPoolReplicaConfig() (*pgxpool.Config, error) {
	return pgxPoolConfig(PostgresReplicaDSN())
}

func pgxPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = testMaxConnections
	dbConfig.MinConns = testMinConnections
	dbConfig.MaxConnLifetime = testMaxConnLifetime
	dbConfig.MaxConnIdleTime = testMaxConnIdleTime
	dbConfig.HealthCheckPeriod = testHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = testConnectTimeout

	return dbConfig, nil
}
