// Package postgresengine provides a PostgreSQL implementation of the version store.
//
// The versions of a collection live in one table per collection. A query resolves the current
// version of every logical document in a single composed statement: the log is grouped by parent,
// the newest version per group wins, its payload is re-attached and the caller's filter, merged
// with the access predicate, is applied to the result. Paging and sorting address the flat
// document view and are remapped onto the jsonb payload.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX) and an optional read replica
//   - Pluggable PredicateCompiler, JSONBPredicateCompiler by default
//   - Page totals by a separate count query or within the page query (WithFacetCounting)
//   - Optional logging, metrics and tracing through dependency-free interfaces
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		db,
//		postgresengine.WithFacetCounting(true),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	_ = store.CreateVersionTable(ctx, "posts")
//
//	record, _ := versionstore.BuildVersionRecord("", []byte(`{"title":"v1"}`), time.Time{}, time.Time{})
//	saved, _ := store.SaveVersion(ctx, "posts", record)
//
//	page, _ := store.QueryCurrentVersions(ctx, postgresengine.QueryArgs{
//		Collection: "posts",
//		Access:     versionstore.AllowAll(),
//		Where:      versionstore.Where("title", versionstore.OpLike, "v"),
//		Pagination: &versionstore.PaginateOptions{Limit: 20},
//	})
package postgresengine
