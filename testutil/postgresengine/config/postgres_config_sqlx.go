package config

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLXSingleConfig creates a configured and pinged *sqlx.DB for the test database.
func PostgresSQLXSingleConfig(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", PostgresSingleDSN())
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
