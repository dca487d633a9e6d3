// Package postgreswrapper provides test utilities for abstracting over different PostgreSQL database adapters.
//
// The same test suite runs against pgx, sql.DB and sqlx.DB. The adapter is selected by the
// ADAPTER_TYPE environment variable (pgx.pool, sql.db, sqlx.db; pgx.pool when unset).
// Tests are skipped when the test database is not reachable.
//
// Usage:
//
//	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithFacetCounting(true))
//	defer wrapper.Close()
//
//	GivenCleanCollection(t, wrapper, "posts")
//	store := wrapper.GetStore()
package postgreswrapper
