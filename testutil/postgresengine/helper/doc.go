// Package helper provides test doubles and fixtures for the PostgreSQL version store tests.
//
// It contains spies for the logging, metrics and tracing hooks of the Store and helpers
// to arrange version logs in a test database.
package helper
