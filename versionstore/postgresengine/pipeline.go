package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

// compileFilter merges the caller's filter with the access result and compiles it into the final
// WHERE expression of the pipeline. A nil expression means "no restriction".
func (s Store) compileFilter(ctx context.Context, args QueryArgs) (exp.Expression, error) {
	merged, denied := versionstore.MergeAccess(args.Where, args.Access)

	compiled, err := s.compiler.Compile(ctx, merged, args.Request, args.OverrideAccess)
	if err != nil {
		return nil, err
	}

	if denied {
		if compiled == nil {
			return goqu.L(sqlFalse), nil
		}

		return goqu.And(compiled, goqu.L(sqlFalse)), nil
	}

	return compiled, nil
}

// buildPipeline composes the version resolution pipeline for one version table:
//
//	WITH grouped AS (
//	  -- newest first, first row per logical document, no payload
//	  SELECT DISTINCT ON (COALESCE(parent, id::text)) id AS version_id, updated_at, created_at
//	  FROM <table>
//	  ORDER BY COALESCE(parent, id::text), updated_at DESC, id DESC
//	), resolved AS (
//	  -- re-attach the winning version, envelope columns of the group win
//	  SELECT g.version_id AS id, COALESCE(v.parent, v.id::text) AS parent, v.version, g.updated_at, g.created_at
//	  FROM grouped AS g INNER JOIN <table> AS v ON v.id = g.version_id
//	)
//	SELECT ... FROM resolved WHERE <filter>
//
// Records without a parent form their own group. PostgreSQL spills the sort of the grouping step to
// disk once it exceeds work_mem, so the version log never has to fit in memory.
func (s Store) buildPipeline(table string, filter exp.Expression) *goqu.SelectDataset {
	builder := goqu.Dialect(dialectPostgres)

	groupKey := documentKey(goqu.C(colParent), goqu.C(colID))

	grouped := builder.
		From(table).
		Select(
			goqu.C(colID).As(aliasVersionID),
			goqu.C(colUpdatedAt),
			goqu.C(colCreatedAt),
		).
		Distinct(groupKey).
		Order(
			groupKey.Asc(),
			goqu.C(colUpdatedAt).Desc(),
			goqu.C(colID).Desc(),
		)

	resolved := builder.
		From(goqu.T(cteGrouped).As(aliasGrouped)).
		InnerJoin(
			goqu.T(table).As(aliasVersions),
			goqu.On(goqu.I(aliasVersions+"."+colID).Eq(goqu.I(aliasGrouped+"."+aliasVersionID))),
		).
		Select(
			goqu.I(aliasGrouped+"."+aliasVersionID).As(colID),
			documentKey(goqu.I(aliasVersions+"."+colParent), goqu.I(aliasVersions+"."+colID)).As(colParent),
			goqu.I(aliasVersions+"."+colVersion).As(colVersion),
			goqu.I(aliasGrouped+"."+colUpdatedAt).As(colUpdatedAt),
			goqu.I(aliasGrouped+"."+colCreatedAt).As(colCreatedAt),
		)

	pipeline := builder.
		From(cteResolved).
		With(cteGrouped, grouped).
		With(cteResolved, resolved)

	if filter != nil {
		pipeline = pipeline.Where(filter)
	}

	return pipeline
}

// documentKey is the id of the logical document a version belongs to:
// its parent, or its own id for a first version.
func documentKey(parent, id exp.IdentifierExpression) exp.SQLFunctionExpression {
	return goqu.COALESCE(parent, goqu.L(castText, id))
}

// documentMembersOf selects the keys of the logical documents that ref identifies, where ref is
// the id of the document or of any of its versions. Compared with Eq, goqu renders IN (SELECT ...).
func documentMembersOf(table string, ref string) *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(table).
		Select(documentKey(goqu.C(colParent), goqu.C(colID))).
		Where(goqu.Or(
			goqu.L(castText, goqu.C(colID)).Eq(ref),
			goqu.C(colParent).Eq(ref),
		))
}

// resultColumns are the columns of a reshaped result row, in scan order.
func resultColumns() []any {
	return []any{
		goqu.L(castText, goqu.C(colID)).As(colID),
		goqu.C(colParent),
		goqu.C(colVersion),
		goqu.C(colCreatedAt),
		goqu.C(colUpdatedAt),
	}
}

// buildSelectAllQuery selects every current document, newest first.
func (s Store) buildSelectAllQuery(table string, filter exp.Expression) (sqlQueryString, error) {
	selectStmt := s.buildPipeline(table, filter).
		Select(resultColumns()...).
		Order(defaultOrder()...)

	return toSQL(selectStmt)
}

// buildSelectPageQuery selects one page of current documents ordered by the remapped sort keys.
// With facet counting, each row also carries the total number of matching documents.
func (s Store) buildSelectPageQuery(
	table string,
	filter exp.Expression,
	opts versionstore.PaginateOptions,
) (sqlQueryString, error) {

	columns := resultColumns()
	if s.useFacet {
		columns = append(columns, goqu.COUNT(goqu.Star()).Over(goqu.W()).As(aliasTotalDocs))
	}

	selectStmt := s.buildPipeline(table, filter).
		Select(columns...).
		Order(orderExpressions(versionstore.RemapSortKeys(opts.Sort))...).
		Limit(uint(opts.Limit)).
		Offset(uint(opts.Offset()))

	return toSQL(selectStmt)
}

// buildCountQuery counts all current documents matching the filter.
func (s Store) buildCountQuery(table string, filter exp.Expression) (sqlQueryString, error) {
	selectStmt := s.buildPipeline(table, filter).
		Select(goqu.COUNT(goqu.Star()).As(aliasTotalDocs))

	return toSQL(selectStmt)
}

type orderable interface {
	Asc() exp.OrderedExpression
	Desc() exp.OrderedExpression
}

// orderExpressions converts remapped sort keys into ORDER BY expressions.
// The id is always part of the ordering, so pages are stable when sort values tie.
func orderExpressions(keys []versionstore.RemappedSortKey) []exp.OrderedExpression {
	ordered := make([]exp.OrderedExpression, 0, len(keys)+1)
	sortsByID := false

	for _, key := range keys {
		var column orderable

		if key.Path.IsReserved() {
			column = envelopeColumn(key.Path.Root())
			sortsByID = sortsByID || key.Path.Root() == versionstore.FieldID
		} else {
			column = jsonbPathExpression(key.Path.Tail())
		}

		if key.Direction > 0 {
			ordered = append(ordered, column.Asc())
		} else {
			ordered = append(ordered, column.Desc())
		}
	}

	if !sortsByID {
		ordered = append(ordered, goqu.C(colID).Desc())
	}

	return ordered
}

func defaultOrder() []exp.OrderedExpression {
	return []exp.OrderedExpression{
		goqu.C(colUpdatedAt).Desc(),
		goqu.C(colID).Desc(),
	}
}

func toSQL(selectStmt *goqu.SelectDataset) (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(versionstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}
