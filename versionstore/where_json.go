package versionstore

import (
	"errors"
	"fmt"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

const (
	whereKeyAnd = "and"
	whereKeyOr  = "or"
)

// ParseWhereJSON decodes a where expression in its JSON form, see ParseWhere.
func ParseWhereJSON(whereJSON []byte) (Predicate, error) {
	if len(whereJSON) == 0 {
		return MatchAll(), nil
	}

	var where map[string]any

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(whereJSON, &where); err != nil {
		return Predicate{}, errors.Join(ErrMalformedFilter, err)
	}

	return ParseWhere(where)
}

// ParseWhere converts a where expression in its map form into a Predicate:
//
//	{
//	  "title": {"equals": "Hello"},
//	  "meta.rating": {"greater_than": 3, "less_than": 5},
//	  "or": [{"status": {"equals": "draft"}}, {"status": {"exists": false}}]
//	}
//
// All top-level entries are combined with AND. Field keys and operators are processed in sorted order,
// so equal input always produces an equal Predicate.
func ParseWhere(where map[string]any) (Predicate, error) {
	if len(where) == 0 {
		return MatchAll(), nil
	}

	keys := make([]string, 0, len(where))
	for key := range where {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	clauses := make([]Predicate, 0, len(keys))

	for _, key := range keys {
		var clause Predicate
		var err error

		switch key {
		case whereKeyAnd, whereKeyOr:
			clause, err = parseLogicalGroup(key, where[key])
		default:
			clause, err = parseFieldConditions(key, where[key])
		}

		if err != nil {
			return Predicate{}, err
		}

		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}

	return And(clauses...), nil
}

func parseLogicalGroup(key string, raw any) (Predicate, error) {
	list, ok := raw.([]any)
	if !ok {
		return Predicate{}, fmt.Errorf("%w: value of %q must be a list", ErrMalformedFilter, key)
	}

	children := make([]Predicate, 0, len(list))

	for _, item := range list {
		sub, ok := item.(map[string]any)
		if !ok {
			return Predicate{}, fmt.Errorf("%w: elements of %q must be objects", ErrMalformedFilter, key)
		}

		child, err := ParseWhere(sub)
		if err != nil {
			return Predicate{}, err
		}

		children = append(children, child)
	}

	if key == whereKeyOr {
		return Or(children...), nil
	}

	return And(children...), nil
}

func parseFieldConditions(field string, raw any) (Predicate, error) {
	path := ParseFieldPath(field)
	if len(path) == 0 {
		return Predicate{}, fmt.Errorf("%w: empty field name", ErrMalformedFilter)
	}

	conditions, ok := raw.(map[string]any)
	if !ok || len(conditions) == 0 {
		return Predicate{}, fmt.Errorf("%w: conditions of %q must be a non-empty object", ErrMalformedFilter, field)
	}

	operators := make([]string, 0, len(conditions))
	for op := range conditions {
		operators = append(operators, op)
	}

	slices.Sort(operators)

	leaves := make([]Predicate, 0, len(operators))

	for _, op := range operators {
		operator := Operator(op)
		if !operator.IsValid() {
			return Predicate{}, fmt.Errorf("%w: unknown operator %q on %q", ErrMalformedFilter, op, field)
		}

		leaves = append(leaves, WherePath(path, operator, conditions[op]))
	}

	if len(leaves) == 1 {
		return leaves[0], nil
	}

	return And(leaves...), nil
}
