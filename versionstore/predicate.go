package versionstore

import (
	"slices"
)

// Operator is the comparison applied by a leaf Predicate.
type Operator string

const (
	OpEquals           Operator = "equals"
	OpNotEquals        Operator = "not_equals"
	OpGreaterThan      Operator = "greater_than"
	OpGreaterThanEqual Operator = "greater_than_equal"
	OpLessThan         Operator = "less_than"
	OpLessThanEqual    Operator = "less_than_equal"
	OpLike             Operator = "like"
	OpContains         Operator = "contains"
	OpIn               Operator = "in"
	OpNotIn            Operator = "not_in"
	OpExists           Operator = "exists"
)

// IsValid reports whether the Operator is one of the supported comparisons.
func (op Operator) IsValid() bool {
	switch op {
	case OpEquals, OpNotEquals,
		OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual,
		OpLike, OpContains, OpIn, OpNotIn, OpExists:
		return true
	default:
		return false
	}
}

// PredicateKind tags the variant held by a Predicate.
type PredicateKind int

const (
	// KindMatchAll is the empty predicate, it matches every document.
	KindMatchAll PredicateKind = iota
	// KindCondition is a leaf: one field path compared with one value.
	KindCondition
	// KindAnd matches when all children match.
	KindAnd
	// KindOr matches when any child matches.
	KindOr
)

// String provides a string representation of PredicateKind for logging and debugging.
func (k PredicateKind) String() string {
	switch k {
	case KindMatchAll:
		return "match_all"
	case KindCondition:
		return "condition"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Predicate is an immutable boolean expression tree over field paths.
//
// It is either empty (matches all), a leaf condition, or a logical AND/OR group of child predicates.
// The zero value is the empty predicate.
//
// While its properties are unexported, it should only be constructed with the supplied factory methods:
//   - MatchAll
//   - Where / WherePath
//   - And / Or
//   - AndOf
type Predicate struct {
	kind     PredicateKind
	path     FieldPath
	operator Operator
	value    any
	children []Predicate
}

// MatchAll returns the empty predicate.
func MatchAll() Predicate {
	return Predicate{kind: KindMatchAll}
}

// Where builds a leaf condition for a dotted field path like "meta.title".
func Where(path string, operator Operator, value any) Predicate {
	return WherePath(ParseFieldPath(path), operator, value)
}

// WherePath builds a leaf condition for a structured FieldPath.
func WherePath(path FieldPath, operator Operator, value any) Predicate {
	return Predicate{
		kind:     KindCondition,
		path:     slices.Clone(path),
		operator: operator,
		value:    value,
	}
}

// And combines predicates with logical AND.
//
// Empty children are dropped since they match everything.
// If no children remain, the result is the empty predicate.
func And(predicates ...Predicate) Predicate {
	children := make([]Predicate, 0, len(predicates))

	for _, p := range predicates {
		if p.IsEmpty() {
			continue
		}

		children = append(children, p)
	}

	if len(children) == 0 {
		return MatchAll()
	}

	return Predicate{kind: KindAnd, children: slices.Clip(children)}
}

// Or combines predicates with logical OR.
//
// An empty child matches everything, so any empty child makes the whole group the empty predicate.
func Or(predicates ...Predicate) Predicate {
	if len(predicates) == 0 {
		return MatchAll()
	}

	children := make([]Predicate, 0, len(predicates))

	for _, p := range predicates {
		if p.IsEmpty() {
			return MatchAll()
		}

		children = append(children, p)
	}

	return Predicate{kind: KindOr, children: slices.Clip(children)}
}

// AndOf appends extra as an additional AND branch to base.
//
// The top-level clauses of base are kept as they are (an AND group is flattened into its children,
// any other predicate is kept as one clause) and extra is appended after them.
// The result can only ever be narrower than base.
func AndOf(base Predicate, extra Predicate) Predicate {
	if extra.IsEmpty() {
		return base
	}

	var clauses []Predicate

	switch base.kind {
	case KindMatchAll:
		clauses = []Predicate{}
	case KindAnd:
		clauses = base.Children()
	default:
		clauses = []Predicate{base}
	}

	return And(append(clauses, extra)...)
}

// Kind returns the variant tag.
func (p Predicate) Kind() PredicateKind {
	return p.kind
}

// IsEmpty reports whether the predicate matches everything.
func (p Predicate) IsEmpty() bool {
	return p.kind == KindMatchAll
}

// Path returns a copy of the leaf's field path.
func (p Predicate) Path() FieldPath {
	return slices.Clone(p.path)
}

func (p Predicate) Operator() Operator {
	return p.operator
}

func (p Predicate) Value() any {
	return p.value
}

// Children returns a copy of the group's children.
func (p Predicate) Children() []Predicate {
	return slices.Clone(p.children)
}
