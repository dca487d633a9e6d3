package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

// SpySpanContext implements versionstore.SpanContext for testing tracing functionality.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}

	c.attributes[key] = value
}

// TracingCollectorSpy is a TracingCollector implementation that captures tracing calls for testing.
type TracingCollectorSpy struct {
	spanRecords []*SpySpanRecord
	mu          sync.Mutex
}

// SpySpanRecord represents a recorded span for testing.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	SpanContext     *SpySpanContext
	Finished        bool
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{spanRecords: make([]*SpySpanRecord, 0)}
}

// StartSpan implements versionstore.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, versionstore.SpanContext) {

	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpySpanContext{}
	s.spanRecords = append(s.spanRecords, &SpySpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		SpanContext:     span,
	})

	return ctx, span
}

// FinishSpan implements versionstore.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx versionstore.SpanContext, status string, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.spanRecords {
		if record.SpanContext == spanCtx {
			record.Status = status
			record.EndAttributes = maps.Clone(attrs)
			record.Finished = true

			return
		}
	}
}

// SpanRecordMatcher provides a fluent interface for checking span records.
type SpanRecordMatcher struct {
	candidates []*SpySpanRecord
}

// HasSpanRecordForName starts a fluent chain over all finished spans with the given name.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &SpanRecordMatcher{}
	for _, record := range s.spanRecords {
		if record.Name == name && record.Finished {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.filter(func(record *SpySpanRecord) bool { return record.Status == status })
}

func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(record *SpySpanRecord) bool { return record.StartAttributes[key] == value })
}

func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(record *SpySpanRecord) bool { return record.EndAttributes[key] == value })
}

func (m *SpanRecordMatcher) filter(keep func(*SpySpanRecord) bool) *SpanRecordMatcher {
	filtered := make([]*SpySpanRecord, 0, len(m.candidates))

	for _, record := range m.candidates {
		if keep(record) {
			filtered = append(filtered, record)
		}
	}

	m.candidates = filtered

	return m
}

// Assert returns true if at least one span met all conditions in the fluent chain.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
