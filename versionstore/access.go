package versionstore

// AccessKind tags the three possible outcomes of an access-control evaluation.
type AccessKind int

const (
	// AccessAllow grants unconditional access, no access predicate is added.
	AccessAllow AccessKind = iota
	// AccessDeny denies access, the query must resolve to zero rows.
	AccessDeny
	// AccessConditional grants access to documents matching the attached predicate only.
	AccessConditional
)

// String provides a string representation of AccessKind for logging and debugging.
func (k AccessKind) String() string {
	switch k {
	case AccessAllow:
		return "allow"
	case AccessDeny:
		return "deny"
	case AccessConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// AccessResult is the decision of an access-control evaluator for one actor and collection.
// The zero value is AllowAll.
type AccessResult struct {
	kind      AccessKind
	predicate Predicate
}

// AllowAll returns an unconditional allow.
func AllowAll() AccessResult {
	return AccessResult{kind: AccessAllow}
}

// DenyAll returns an unconditional deny.
func DenyAll() AccessResult {
	return AccessResult{kind: AccessDeny}
}

// Conditional restricts access to documents matching the predicate.
//
// An empty predicate restricts nothing and is therefore normalized to AllowAll.
func Conditional(predicate Predicate) AccessResult {
	if predicate.IsEmpty() {
		return AllowAll()
	}

	return AccessResult{kind: AccessConditional, predicate: predicate}
}

func (ar AccessResult) Kind() AccessKind {
	return ar.kind
}

// Predicate returns the access predicate, which is only non-empty for AccessConditional.
func (ar AccessResult) Predicate() Predicate {
	return ar.predicate
}

// RequestContext carries the caller's identity and request scoped settings into predicate compilation
// and access-control evaluation.
type RequestContext struct {
	Actor      string
	Roles      []string
	Locale     string
	Collection string
}
