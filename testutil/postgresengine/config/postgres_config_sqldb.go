package config

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // postgres driver
)

const (
	testMaxOpenConnections = 10
	testMaxIdleConnections = 2
)

// PostgresSQLDBSingleConfig creates a configured and pinged *sql.DB for the test database.
func PostgresSQLDBSingleConfig(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresSingleDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(testMaxOpenConnections)
	db.SetMaxIdleConns(testMaxIdleConnections)
	db.SetConnMaxLifetime(testMaxConnLifetime)
	db.SetConnMaxIdleTime(testMaxConnIdleTime)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
