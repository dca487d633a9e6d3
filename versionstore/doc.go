// Package versionstore provides the storage-agnostic core for querying the "current" version
// of documents kept in an append-only version log.
//
// Every edit of a logical document appends an immutable VersionRecord. Queries against the log
// present, per logical document (grouped by Parent), only the most recently updated version as a
// CurrentDocument, filtered and sorted as if it were the live document.
//
// This package defines:
//   - Predicate: an immutable AND/OR tree of field conditions, plus ParseWhere for the JSON form
//   - RewriteToVersion: re-roots field paths under the nested version payload
//   - AccessResult: the Allow / Deny / Conditional outcome of access control
//   - MergeAccess: intersects a filter with an access predicate, never widening the result
//   - PaginateOptions, RemapSortKeys and PaginatedDocs for paging over payload fields
//   - CurrentDocument and ReshapeCurrent for the flat result shape
//
// Common usage pattern:
//
//	where := versionstore.And(
//		versionstore.Where("status", versionstore.OpEquals, "review"),
//		versionstore.Where("updatedAt", versionstore.OpGreaterThan, since))
//
//	page, err := store.QueryCurrentVersions(ctx, postgresengine.QueryArgs{
//		Collection: "posts",
//		Access:     versionstore.Conditional(versionstore.Where("author", versionstore.OpEquals, userID)),
//		Where:      where,
//		Pagination: &versionstore.PaginateOptions{Page: 1, Limit: 20, Sort: versionstore.ParseSort("-updatedAt")},
//	})
package versionstore
