package postgresengine

import (
	"time"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithTableSuffix sets the suffix appended to a collection name to get its version table name.
// The default is "_versions", so the versions of collection "posts" live in "posts_versions".
func WithTableSuffix(suffix string) Option {
	return func(s *Store) error {
		if suffix == "" {
			return versionstore.ErrEmptyTableSuffix
		}

		s.tableSuffix = suffix

		return nil
	}
}

// WithFacetCounting enables counting the total number of matching documents within the page query
// (COUNT(*) OVER ()) instead of issuing a separate count query.
func WithFacetCounting(enabled bool) Option {
	return func(s *Store) error {
		s.useFacet = enabled
		return nil
	}
}

// WithPredicateCompiler replaces the default JSONBPredicateCompiler.
func WithPredicateCompiler(compiler PredicateCompiler) Option {
	return func(s *Store) error {
		if compiler == nil {
			return versionstore.ErrNilPredicateCompiler
		}

		s.compiler = compiler

		return nil
	}
}

// WithClock replaces time.Now as the source of UpdatedAt for versions saved without one.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) error {
		if clock != nil {
			s.clock = clock
		}

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Document counts, durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger versionstore.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives query/save durations, returned document counts and database errors.
func WithMetrics(collector versionstore.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// It receives one span per query/save operation including error details.
func WithTracing(collector versionstore.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// Log messages then carry the caller's context, enabling trace/span correlation.
func WithContextualLogger(logger versionstore.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}
