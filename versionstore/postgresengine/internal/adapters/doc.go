// Package adapters runs the version store's SQL on pgx pools or database/sql connections (plain or sqlx).
//
// The store builds complete SQL strings with goqu, so an adapter only has to execute a string
// and iterate rows. The pgx adapter can route reads to a replica, see versionstore.WithEventualConsistency.
package adapters
