// Package oteladapters plugs OpenTelemetry into the observability interfaces of the version store.
//
// Wire the adapters into a store with the postgresengine options:
//
//	store, err := postgresengine.NewStoreFromPGXPool(pool,
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("versionstore")),
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("versionstore"))),
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("versionstore"))),
//	)
//
// Log records written through SlogBridgeLogger carry the trace and span id of the context they are
// written with, so logs of one QueryCurrentVersions call correlate with its span.
package oteladapters
