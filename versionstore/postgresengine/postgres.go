package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine/internal/adapters"
)

const (
	defaultTableSuffix          = "_versions"
	logMsgBuildQueryFailed      = "failed to build query"
	logMsgCompileFilterFailed   = "failed to compile filter"
	logMsgInvalidArguments      = "invalid query arguments"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgReshapeFailed         = "failed to reshape current version"
	logMsgBuildInsertFailed     = "failed to build insert query"
	logMsgDBExecFailed          = "database execution failed"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgQueryCompleted        = "current versions queried"
	logMsgVersionSaved          = "version saved"
	logMsgHistoryLoaded         = "version history loaded"
	logMsgTableCreated          = "version table created"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "versionstore operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrCollection           = "collection"
	logAttrParent               = "parent"
	logAttrDocCount             = "doc_count"
	logAttrTotalDocs            = "total_docs"
	logAttrDurationMS           = "duration_ms"
	logAttrAccess               = "access"
	logAttrRowsAffected         = "rows_affected"
	logActionQueryAll           = "query all"
	logActionQueryPage          = "query page"
	logActionCount              = "count"
	logActionSave               = "save"
	logActionHistory            = "history"
	logActionCreateTable        = "create table"
	logActionLookupDocument     = "lookup document"
	colID                       = "id"
	colParent                   = "parent"
	colVersion                  = "version"
	colCreatedAt                = "created_at"
	colUpdatedAt                = "updated_at"
	cteGrouped                  = "grouped"
	cteResolved                 = "resolved"
	aliasGrouped                = "g"
	aliasVersions               = "v"
	aliasVersionID              = "version_id"
	aliasTotalDocs              = "total_docs"
	dialectPostgres             = "postgres"
	castText                    = "?::text"
	castJsonb                   = "?::jsonb"
	sqlFalse                    = "FALSE"
	sqlTrue                     = "TRUE"
	jsonbTypeString             = "string"
	jsonbTypeArray              = "array"
	indexSuffixCurrent          = "_current_idx"
	createTableStatementPattern = `CREATE TABLE IF NOT EXISTS %s (
	id uuid PRIMARY KEY,
	parent text,
	version jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
)`
	createIndexStatementPattern = `CREATE INDEX IF NOT EXISTS %s ON %s ((COALESCE(parent, id::text)), updated_at DESC, id DESC)`
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
	errorTypeString   = string
)

// Store resolves the current version of every logical document in a version log stored in PostgreSQL.
//
// Each collection has its own version table named <collection><suffix>, with the columns
// id (uuid), parent (text, NULL for the first version), version (jsonb), created_at and updated_at.
//
// A Store is immutable after construction and safe for concurrent use.
type Store struct {
	db               adapters.DBAdapter
	tableSuffix      string
	useFacet         bool
	compiler         PredicateCompiler
	clock            func() time.Time
	logger           versionstore.Logger
	contextualLogger versionstore.ContextualLogger
	metricsCollector versionstore.MetricsCollector
	tracingCollector versionstore.TracingCollector
}

// QueryArgs are the inputs of QueryCurrentVersions.
//
// Pagination is optional: without it, all current documents are returned without page information.
// Access is the already evaluated access-control decision for the actor in Request.
type QueryArgs struct {
	Collection     string
	Access         versionstore.AccessResult
	Where          versionstore.Predicate
	Pagination     *versionstore.PaginateOptions
	Request        versionstore.RequestContext
	OverrideAccess bool
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, versionstore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromPGXPoolAndReplica creates a new Store using a primary and a replica pgx Pool.
// Queries run against the replica when the context asks for eventual consistency,
// see versionstore.WithEventualConsistency.
func NewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, versionstore.ErrNilDatabaseConnection
	}

	if replica == nil {
		return newStore(adapters.NewPGXAdapter(db), options...)
	}

	return newStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, versionstore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, versionstore.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:          db,
		tableSuffix: defaultTableSuffix,
		compiler:    JSONBPredicateCompiler{},
		clock:       time.Now,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// QueryCurrentVersions returns the current version of every logical document in the collection,
// reshaped into the flat document view and filtered by args.Where and args.Access.
//
// The filter and sort keys address the flat view ("title", "meta.rating", "updatedAt"); they are
// remapped into the stored version payload before the query runs.
// A denied access yields an empty result, not an error.
//
// Without args.Pagination, every matching document is returned, newest first, and only Docs and
// TotalDocs are set. With it, one page is returned together with its page information.
func (s Store) QueryCurrentVersions(ctx context.Context, args QueryArgs) (versionstore.PaginatedDocs, error) {
	tracer, ctx := s.startQueryTracing(ctx, args)
	metrics := s.startQueryMetrics(ctx)
	start := time.Now()

	var empty versionstore.PaginatedDocs

	table, tableErr := s.tableName(args.Collection)
	if tableErr != nil {
		s.logErrorAll(ctx, logMsgInvalidArguments, tableErr)
		tracer.finishError(errorTypeInvalidInput, 0)
		metrics.recordError(errorTypeInvalidInput, 0)

		return empty, tableErr
	}

	if args.Pagination != nil {
		if validateErr := args.Pagination.Validate(); validateErr != nil {
			s.logErrorAll(ctx, logMsgInvalidArguments, validateErr, logAttrCollection, args.Collection)
			tracer.finishError(errorTypeInvalidInput, 0)
			metrics.recordError(errorTypeInvalidInput, 0)

			return empty, validateErr
		}
	}

	filter, compileErr := s.compileFilter(ctx, args)
	if compileErr != nil {
		s.logErrorAll(ctx, logMsgCompileFilterFailed, compileErr, logAttrCollection, args.Collection)
		tracer.finishError(errorTypeCompileFilter, 0)
		metrics.recordError(errorTypeCompileFilter, 0)

		return empty, compileErr
	}

	var result versionstore.PaginatedDocs
	var errorType errorTypeString
	var queryErr error

	if args.Pagination == nil {
		result, errorType, queryErr = s.queryAll(ctx, table, filter)
	} else {
		result, errorType, queryErr = s.queryPage(ctx, table, filter, *args.Pagination)
	}

	duration := time.Since(start)

	if queryErr != nil {
		tracer.finishError(errorType, duration)
		metrics.recordError(errorType, duration)

		return empty, queryErr
	}

	s.logOperationAll(
		ctx,
		logMsgQueryCompleted,
		logAttrCollection, args.Collection,
		logAttrAccess, args.Access.Kind().String(),
		logAttrDocCount, len(result.Docs),
		logAttrTotalDocs, result.TotalDocs,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	tracer.finishSuccess(result, duration)
	metrics.recordSuccess(result, duration)

	return result, nil
}

// queryAll runs the whole pipeline without pagination.
func (s Store) queryAll(
	ctx context.Context,
	table string,
	filter exp.Expression,
) (versionstore.PaginatedDocs, errorTypeString, error) {

	var empty versionstore.PaginatedDocs

	sqlQuery, buildErr := s.buildSelectAllQuery(table, filter)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, errorTypeBuildQuery, buildErr
	}

	docs, _, errorType, fetchErr := s.fetchDocs(ctx, sqlQuery, logActionQueryAll, false)
	if fetchErr != nil {
		return empty, errorType, fetchErr
	}

	return versionstore.BuildUnpaginated(docs), "", nil
}

// queryPage runs the pipeline for one page. The total comes from the page rows with facet counting,
// otherwise from a separate count query over the same pipeline.
func (s Store) queryPage(
	ctx context.Context,
	table string,
	filter exp.Expression,
	opts versionstore.PaginateOptions,
) (versionstore.PaginatedDocs, errorTypeString, error) {

	var empty versionstore.PaginatedDocs
	opts = opts.WithDefaults()

	sqlQuery, buildErr := s.buildSelectPageQuery(table, filter, opts)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, errorTypeBuildQuery, buildErr
	}

	docs, totalDocs, errorType, fetchErr := s.fetchDocs(ctx, sqlQuery, logActionQueryPage, s.useFacet)
	if fetchErr != nil {
		return empty, errorType, fetchErr
	}

	// an empty page beyond the end carries no facet total
	if !s.useFacet || (len(docs) == 0 && opts.Page > 1) {
		var countErr error

		totalDocs, errorType, countErr = s.countDocs(ctx, table, filter)
		if countErr != nil {
			return empty, errorType, countErr
		}
	}

	return versionstore.BuildPage(docs, totalDocs, opts), "", nil
}

// fetchDocs executes a pipeline select and reshapes its rows. The rows are closed before it returns.
func (s Store) fetchDocs(
	ctx context.Context,
	sqlQuery sqlQueryString,
	action string,
	withTotal bool,
) ([]versionstore.CurrentDocument, int, errorTypeString, error) {

	rows, _, queryErr := s.executeQuery(ctx, sqlQuery, action)
	if queryErr != nil {
		return nil, 0, errorTypeDatabaseQuery, errors.Join(versionstore.ErrQueryingVersionsFailed, queryErr)
	}
	defer s.closeRows(ctx, rows)

	return s.processRows(ctx, rows, withTotal)
}

// countDocs counts all current documents matching the filter.
func (s Store) countDocs(
	ctx context.Context,
	table string,
	filter exp.Expression,
) (int, errorTypeString, error) {

	sqlQuery, buildErr := s.buildCountQuery(table, filter)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		return 0, errorTypeBuildQuery, buildErr
	}

	rows, _, queryErr := s.executeQuery(ctx, sqlQuery, logActionCount)
	if queryErr != nil {
		return 0, errorTypeCount, errors.Join(versionstore.ErrCountingVersionsFailed, queryErr)
	}
	defer s.closeRows(ctx, rows)

	var count int64

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			s.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
			return 0, errorTypeRowScan, errors.Join(versionstore.ErrScanningDBRowFailed, scanErr)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return 0, errorTypeCount, errors.Join(versionstore.ErrCountingVersionsFailed, rowsErr)
	}

	return int(count), "", nil
}

// executeQuery executes the SQL query and returns rows with timing information.
// The native storage error is returned unchanged, callers wrap it with their sentinel.
func (s Store) executeQuery(ctx context.Context, sqlQuery sqlQueryString, action string) (
	adapters.DBRows,
	queryDuration,
	error,
) {

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDurationAll(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		s.logErrorAll(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, duration, queryErr
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}

		if s.contextualLogger != nil {
			s.contextualLogger.WarnContext(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processRows scans resolved rows and reshapes them into current documents.
// With withTotal, every row carries the facet total as its last column.
func (s Store) processRows(ctx context.Context, rows adapters.DBRows, withTotal bool) (
	[]versionstore.CurrentDocument,
	int,
	errorTypeString,
	error,
) {

	docs := make([]versionstore.CurrentDocument, 0)
	row := versionstore.ResolvedRow{}
	var totalDocs int64

	for rows.Next() {
		dest := []any{&row.ID, &row.Parent, &row.VersionJSON, &row.CreatedAt, &row.UpdatedAt}
		if withTotal {
			dest = append(dest, &totalDocs)
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			s.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
			return nil, 0, errorTypeRowScan, errors.Join(versionstore.ErrScanningDBRowFailed, scanErr)
		}

		doc, reshapeErr := versionstore.ReshapeCurrent(row)
		if reshapeErr != nil {
			s.logErrorAll(ctx, logMsgReshapeFailed, reshapeErr, logAttrParent, row.Parent)
			return nil, 0, errorTypeReshape, reshapeErr
		}

		docs = append(docs, doc)
		row.VersionJSON = nil
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logErrorAll(ctx, logMsgDBQueryFailed, rowsErr)
		return nil, 0, errorTypeDatabaseQuery, errors.Join(versionstore.ErrQueryingVersionsFailed, rowsErr)
	}

	return docs, int(totalDocs), "", nil
}

// SaveVersion appends one version record to the collection's version log and returns it with
// its assigned id. The id is a UUIDv7, so ids of later saves sort after earlier ones.
//
// An empty Parent starts a new logical document whose parent is the record itself.
// Parent may also be the id of any version of an existing document; it is stored as the id of that
// document, so edits never split a document in two. A Parent that matches nothing is stored as given.
//
// A zero UpdatedAt is set to the store's clock. A zero CreatedAt is taken from the first version of
// the document, or set to UpdatedAt for a new document.
func (s Store) SaveVersion(
	ctx context.Context,
	collection string,
	record versionstore.VersionRecord,
) (versionstore.VersionRecord, error) {

	tracer, ctx := s.startSaveTracing(ctx, collection, record)
	metrics := s.startSaveMetrics(ctx)

	table, tableErr := s.tableName(collection)
	if tableErr != nil {
		tracer.finishError(errorTypeInvalidInput, 0)
		metrics.recordError(errorTypeInvalidInput, 0)

		return versionstore.VersionRecord{}, tableErr
	}

	id, idErr := uuid.NewV7()
	if idErr != nil {
		tracer.finishError(errorTypeInvalidInput, 0)
		metrics.recordError(errorTypeInvalidInput, 0)

		return versionstore.VersionRecord{}, errors.Join(versionstore.ErrSavingVersionFailed, idErr)
	}

	record.ID = id.String()

	if record.Parent != "" {
		documentID, createdAt, found, lookupErr := s.lookupDocument(ctx, table, record.Parent)
		if lookupErr != nil {
			tracer.finishError(errorTypeDatabaseQuery, 0)
			metrics.recordError(errorTypeDatabaseQuery, 0)

			return versionstore.VersionRecord{}, errors.Join(versionstore.ErrSavingVersionFailed, lookupErr)
		}

		if found {
			record.Parent = documentID

			if record.CreatedAt.IsZero() {
				record.CreatedAt = createdAt
			}
		}
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = s.clock().UTC()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}

	sqlQuery, buildErr := s.buildInsertQuery(table, record)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildInsertFailed, buildErr, logAttrCollection, collection)
		tracer.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return versionstore.VersionRecord{}, buildErr
	}

	rowsAffected, duration, execErr := s.executeExec(ctx, sqlQuery, logActionSave)
	if execErr != nil {
		errorType := errorTypeDatabaseExec
		if errors.Is(execErr, versionstore.ErrGettingRowsAffectedFailed) {
			errorType = errorTypeRowsAffected
		}

		tracer.finishError(errorType, duration)
		metrics.recordError(errorType, duration)

		return versionstore.VersionRecord{}, errors.Join(versionstore.ErrSavingVersionFailed, execErr)
	}

	if rowsAffected != 1 {
		tracer.finishError(errorTypeNotStored, duration)
		metrics.recordError(errorTypeNotStored, duration)

		return versionstore.VersionRecord{}, versionstore.ErrVersionNotStored
	}

	s.logOperationAll(
		ctx,
		logMsgVersionSaved,
		logAttrCollection, collection,
		logAttrParent, record.Parent,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	tracer.finishSuccess(rowsAffected, duration)
	metrics.recordSuccess(duration)

	return record, nil
}

// lookupDocument resolves ref, the id of a document or of any of its versions, to the id of the
// logical document and the creation time of its first version.
func (s Store) lookupDocument(ctx context.Context, table string, ref string) (string, time.Time, bool, error) {
	sqlQuery, buildErr := s.buildDocumentLookupQuery(table, ref)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		return "", time.Time{}, false, buildErr
	}

	// the version saved next must see the primary's state
	rows, _, queryErr := s.executeQuery(versionstore.WithStrongConsistency(ctx), sqlQuery, logActionLookupDocument)
	if queryErr != nil {
		return "", time.Time{}, false, queryErr
	}
	defer s.closeRows(ctx, rows)

	var documentID string
	var createdAt time.Time

	if !rows.Next() {
		return "", time.Time{}, false, rows.Err()
	}

	if scanErr := rows.Scan(&documentID, &createdAt); scanErr != nil {
		s.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
		return "", time.Time{}, false, errors.Join(versionstore.ErrScanningDBRowFailed, scanErr)
	}

	return documentID, createdAt, true, nil
}

// FindVersions returns the full history of one logical document, newest first.
// parent identifies the document: its id, i.e. the id of its first version, or the id of any of its versions.
func (s Store) FindVersions(ctx context.Context, collection string, parent string) (versionstore.VersionRecords, error) {
	table, tableErr := s.tableName(collection)
	if tableErr != nil {
		return nil, tableErr
	}

	sqlQuery, buildErr := s.buildHistoryQuery(table, parent)
	if buildErr != nil {
		s.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		return nil, buildErr
	}

	rows, duration, queryErr := s.executeQuery(ctx, sqlQuery, logActionHistory)
	if queryErr != nil {
		return nil, errors.Join(versionstore.ErrQueryingVersionsFailed, queryErr)
	}
	defer s.closeRows(ctx, rows)

	history := make(versionstore.VersionRecords, 0)

	for rows.Next() {
		record := versionstore.VersionRecord{}

		if scanErr := rows.Scan(
			&record.ID,
			&record.Parent,
			&record.PayloadJSON,
			&record.CreatedAt,
			&record.UpdatedAt,
		); scanErr != nil {
			s.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(versionstore.ErrScanningDBRowFailed, scanErr)
		}

		history = append(history, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(versionstore.ErrQueryingVersionsFailed, rowsErr)
	}

	s.logOperationAll(
		ctx,
		logMsgHistoryLoaded,
		logAttrCollection, collection,
		logAttrParent, parent,
		logAttrDocCount, len(history),
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	return history, nil
}

// CreateVersionTable creates the collection's version table and the index backing the grouping step
// of the resolution pipeline. Existing tables and indexes are left untouched.
func (s Store) CreateVersionTable(ctx context.Context, collection string) error {
	table, tableErr := s.tableName(collection)
	if tableErr != nil {
		return tableErr
	}

	tableIdentifier := pgx.Identifier{table}.Sanitize()
	indexIdentifier := pgx.Identifier{table + indexSuffixCurrent}.Sanitize()

	statements := []sqlQueryString{
		fmt.Sprintf(createTableStatementPattern, tableIdentifier),
		fmt.Sprintf(createIndexStatementPattern, indexIdentifier, tableIdentifier),
	}

	for _, statement := range statements {
		if _, _, execErr := s.executeExec(ctx, statement, logActionCreateTable); execErr != nil {
			return errors.Join(versionstore.ErrCreatingTableFailed, execErr)
		}
	}

	s.logOperationAll(ctx, logMsgTableCreated, logAttrCollection, collection)

	return nil
}

// executeExec executes the SQL statement and returns rows affected and duration.
func (s Store) executeExec(ctx context.Context, sqlQuery sqlQueryString, action string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDurationAll(ctx, sqlQuery, action, duration)

	if execErr != nil {
		s.logErrorAll(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, duration, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logErrorAll(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, duration, errors.Join(versionstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

func (s Store) buildInsertQuery(table string, record versionstore.VersionRecord) (sqlQueryString, error) {
	var parent any
	if record.Parent != "" {
		parent = record.Parent
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(table).
		Rows(goqu.Record{
			colID:        record.ID,
			colParent:    parent,
			colVersion:   goqu.L(castJsonb, string(record.PayloadJSON)),
			colCreatedAt: record.CreatedAt,
			colUpdatedAt: record.UpdatedAt,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(versionstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildHistoryQuery(table string, parent string) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(table).
		Select(
			goqu.L(castText, goqu.C(colID)).As(colID),
			goqu.COALESCE(goqu.C(colParent), "").As(colParent),
			goqu.C(colVersion),
			goqu.C(colCreatedAt),
			goqu.C(colUpdatedAt),
		).
		Where(documentKey(goqu.C(colParent), goqu.C(colID)).Eq(documentMembersOf(table, parent))).
		Order(defaultOrder()...)

	return toSQL(selectStmt)
}

// buildDocumentLookupQuery selects the document id and the creation time of the first version of
// the document that ref identifies.
func (s Store) buildDocumentLookupQuery(table string, ref string) (sqlQueryString, error) {
	key := documentKey(goqu.C(colParent), goqu.C(colID))

	selectStmt := goqu.Dialect(dialectPostgres).
		From(table).
		Select(key.As(colParent), goqu.C(colCreatedAt)).
		Where(key.Eq(documentMembersOf(table, ref))).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc()).
		Limit(1)

	return toSQL(selectStmt)
}

// tableName derives the version table of a collection.
func (s Store) tableName(collection string) (string, error) {
	if collection == "" {
		return "", versionstore.ErrEmptyCollectionName
	}

	return collection + s.tableSuffix, nil
}
