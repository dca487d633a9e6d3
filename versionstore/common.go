package versionstore

import (
	"errors"
)

var ErrEmptyCollectionName = errors.New("empty collection name supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrMalformedFilter = errors.New("filter expression is malformed")
var ErrUnknownField = errors.New("filter references an unknown field")
var ErrInvalidPagination = errors.New("pagination options are not valid")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryingVersionsFailed = errors.New("querying versions failed")
var ErrCountingVersionsFailed = errors.New("counting versions failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrDecodingPayloadFailed = errors.New("decoding version payload failed")
var ErrSavingVersionFailed = errors.New("saving version failed")
var ErrCreatingTableFailed = errors.New("creating version table failed")
var ErrEmptyTableSuffix = errors.New("empty version table suffix supplied")
var ErrNilPredicateCompiler = errors.New("predicate compiler must not be nil")
var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrVersionNotStored = errors.New("version was not stored")
