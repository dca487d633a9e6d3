package postgresengine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

const (
	metricQueryDuration    = "versionstore_query_duration_seconds"
	metricDocsReturned     = "versionstore_docs_returned"
	metricSaveDuration     = "versionstore_save_duration_seconds"
	metricDatabaseErrors   = "versionstore_database_errors_total"
	spanNameQuery          = "versionstore.query"
	spanNameSave           = "versionstore.save"
	spanAttrOperation      = "operation"
	spanAttrCollection     = "collection"
	spanAttrAccess         = "access"
	spanAttrPaginated      = "paginated"
	spanAttrDocCount       = "doc_count"
	spanAttrTotalDocs      = "total_docs"
	spanAttrParent         = "parent"
	spanAttrRowsAffected   = "rows_affected"
	spanAttrErrorType      = "error_type"
	spanAttrDurationMS     = "duration_ms"
	labelStatus            = "status"
	statusSuccess          = "success"
	statusError            = "error"
	operationQuery         = "query"
	operationSave          = "save"
	errorTypeInvalidInput  = "invalid_input"
	errorTypeCompileFilter = "compile_filter"
	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeCount         = "count"
	errorTypeRowScan       = "row_scan"
	errorTypeReshape       = "reshape"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeRowsAffected  = "rows_affected"
	errorTypeNotStored     = "not_stored"
)

// logQueryWithDurationAll logs SQL queries with execution time at debug level to all configured loggers.
func (s Store) logQueryWithDurationAll(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperationAll logs operational information at info level to all configured loggers.
func (s Store) logOperationAll(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorAll logs error information at the error level to all configured loggers.
func (s Store) logErrorAll(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {

	if s.logger == nil && s.contextualLogger == nil {
		return
	}

	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (s Store) formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f", s.toMilliseconds(d))
}

// recordErrorMetricsContext records a database error, context-aware if the collector supports it.
func (s Store) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(versionstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// recordDurationMetricsContext records a duration, context-aware if the collector supports it.
func (s Store) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {

	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := s.metricsCollector.(versionstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordValueMetricsContext records a value, context-aware if the collector supports it.
func (s Store) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {

	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := s.metricsCollector.(versionstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metricName, value, labels)
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (s Store) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, versionstore.SpanContext) {

	if s.tracingCollector != nil {
		return s.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (s Store) finishTraceSpan(
	span versionstore.SpanContext,
	status string,
	attrs map[string]string,
) {

	if s.tracingCollector != nil && span != nil {
		s.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// === Tracing Observer Pattern ===
// The observers hide the span lifecycle from the operations.

type queryTracingObserver struct {
	s    Store
	span versionstore.SpanContext
}

type saveTracingObserver struct {
	s    Store
	span versionstore.SpanContext
}

// startQueryTracing creates a new tracing observer for QueryCurrentVersions.
func (s Store) startQueryTracing(ctx context.Context, args QueryArgs) (*queryTracingObserver, context.Context) {
	newCtx, span := s.startTraceSpan(ctx, spanNameQuery, map[string]string{
		spanAttrOperation:  operationQuery,
		spanAttrCollection: args.Collection,
		spanAttrAccess:     args.Access.Kind().String(),
		spanAttrPaginated:  strconv.FormatBool(args.Pagination != nil),
	})

	return &queryTracingObserver{s: s, span: span}, newCtx
}

// startSaveTracing creates a new tracing observer for SaveVersion.
func (s Store) startSaveTracing(
	ctx context.Context,
	collection string,
	record versionstore.VersionRecord,
) (*saveTracingObserver, context.Context) {

	newCtx, span := s.startTraceSpan(ctx, spanNameSave, map[string]string{
		spanAttrOperation:  operationSave,
		spanAttrCollection: collection,
		spanAttrParent:     record.Parent,
	})

	return &saveTracingObserver{s: s, span: span}, newCtx
}

func (qto *queryTracingObserver) finishSuccess(result versionstore.PaginatedDocs, duration time.Duration) {
	if qto.span == nil {
		return
	}

	docCount := strconv.Itoa(len(result.Docs))
	totalDocs := strconv.Itoa(result.TotalDocs)

	qto.span.SetStatus(statusSuccess)
	qto.span.AddAttribute(spanAttrDocCount, docCount)
	qto.span.AddAttribute(spanAttrTotalDocs, totalDocs)
	qto.span.AddAttribute(spanAttrDurationMS, qto.s.formatDuration(duration))

	qto.s.finishTraceSpan(qto.span, statusSuccess, map[string]string{
		spanAttrDocCount:  docCount,
		spanAttrTotalDocs: totalDocs,
	})
}

func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	if qto.span == nil {
		return
	}

	qto.span.SetStatus(statusError)
	qto.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		qto.span.AddAttribute(spanAttrDurationMS, qto.s.formatDuration(duration))
	}

	qto.s.finishTraceSpan(qto.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

func (sto *saveTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	if sto.span == nil {
		return
	}

	affected := strconv.FormatInt(rowsAffected, 10)

	sto.span.SetStatus(statusSuccess)
	sto.span.AddAttribute(spanAttrRowsAffected, affected)
	sto.span.AddAttribute(spanAttrDurationMS, sto.s.formatDuration(duration))

	sto.s.finishTraceSpan(sto.span, statusSuccess, map[string]string{spanAttrRowsAffected: affected})
}

func (sto *saveTracingObserver) finishError(errorType string, duration time.Duration) {
	if sto.span == nil {
		return
	}

	sto.span.SetStatus(statusError)
	sto.span.AddAttribute(spanAttrErrorType, errorType)

	attrs := map[string]string{spanAttrErrorType: errorType}
	if duration > 0 {
		attrs[spanAttrDurationMS] = sto.s.formatDuration(duration)
	}

	sto.s.finishTraceSpan(sto.span, statusError, attrs)
}

// === Metrics Observer Pattern ===

type queryMetricsObserver struct {
	s   Store
	ctx context.Context
}

type saveMetricsObserver struct {
	s   Store
	ctx context.Context
}

func (s Store) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{s: s, ctx: ctx}
}

func (s Store) startSaveMetrics(ctx context.Context) *saveMetricsObserver {
	return &saveMetricsObserver{s: s, ctx: ctx}
}

// recordSuccess records the duration and the number of returned documents of a query.
func (qmo *queryMetricsObserver) recordSuccess(result versionstore.PaginatedDocs, duration time.Duration) {
	qmo.s.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusSuccess)
	qmo.s.recordValueMetricsContext(qmo.ctx, metricDocsReturned, float64(len(result.Docs)), operationQuery, statusSuccess)
}

func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	qmo.s.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusError)
	qmo.s.recordErrorMetricsContext(qmo.ctx, operationQuery, errorType)
}

func (smo *saveMetricsObserver) recordSuccess(duration time.Duration) {
	smo.s.recordDurationMetricsContext(smo.ctx, metricSaveDuration, duration, operationSave, statusSuccess)
}

func (smo *saveMetricsObserver) recordError(errorType string, duration time.Duration) {
	smo.s.recordDurationMetricsContext(smo.ctx, metricSaveDuration, duration, operationSave, statusError)
	smo.s.recordErrorMetricsContext(smo.ctx, operationSave, errorType)
}
