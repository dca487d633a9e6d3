// Package config provides PostgreSQL database configuration for version store testing.
//
// This package contains factory functions for creating database connections
// using the Store's supported PostgreSQL adapters (pgx.Pool, sql.DB, sqlx.DB).
//
// The DSNs default to a local test database and can be overridden with the
// VERSIONSTORE_TEST_DSN and VERSIONSTORE_TEST_REPLICA_DSN environment variables.
package config
