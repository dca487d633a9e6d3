package versionstore

// RewriteToVersion returns a copy of the predicate in which every field path is rooted under the
// nested version payload, except the envelope fields id, createdAt and updatedAt.
//
//	{title equals "x"}              -> {version.title equals "x"}
//	{and: [{updatedAt > t}, {a.b}]} -> {and: [{updatedAt > t}, {version.a.b}]}
//
// The input is never modified. Rewriting an empty predicate yields an empty predicate.
func RewriteToVersion(p Predicate) Predicate {
	switch p.kind {
	case KindCondition:
		path := p.Path()
		if !path.IsReserved() {
			path = path.Prefixed(FieldVersion)
		}

		return Predicate{
			kind:     KindCondition,
			path:     path,
			operator: p.operator,
			value:    p.value,
		}

	case KindAnd, KindOr:
		children := make([]Predicate, len(p.children))
		for i, child := range p.children {
			children[i] = RewriteToVersion(child)
		}

		return Predicate{kind: p.kind, children: children}

	default:
		return MatchAll()
	}
}

// MergeAccess builds the single predicate a current-version query is filtered with.
//
// Both the filter and the access predicate are rewritten into the version payload namespace.
// A conditional access predicate is always appended as an additional AND branch of the filter.
// For AccessDeny, denied is true and callers must make the query unsatisfiable.
func MergeAccess(filter Predicate, access AccessResult) (merged Predicate, denied bool) {
	rewrittenFilter := RewriteToVersion(filter)

	switch access.Kind() {
	case AccessDeny:
		return rewrittenFilter, true

	case AccessConditional:
		return AndOf(rewrittenFilter, RewriteToVersion(access.Predicate())), false

	default:
		return rewrittenFilter, false
	}
}
