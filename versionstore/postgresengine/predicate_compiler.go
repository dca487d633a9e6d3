package postgresengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

// PredicateCompiler turns a Predicate, already rewritten into the version record address space,
// into a native SQL filter over the resolved current-version rows.
//
// The rows expose the columns id, parent, version (jsonb), created_at and updated_at.
// A nil expression means "no restriction".
//
// Implementations may consult the request context and overrideAccess, e.g. to hide relationship
// fields the actor must not filter on.
type PredicateCompiler interface {
	Compile(
		ctx context.Context,
		where versionstore.Predicate,
		req versionstore.RequestContext,
		overrideAccess bool,
	) (exp.Expression, error)
}

// JSONBPredicateCompiler is the default PredicateCompiler.
//
// Envelope paths (id, createdAt, updatedAt) compile to column comparisons,
// paths rooted under version compile to jsonb path comparisons on the version column.
// Any other root is rejected with versionstore.ErrUnknownField.
//
// On payload fields, range operators only match values of the same JSON type as the operand.
// contains with a string matches a case-insensitive substring of a string field or an element of an
// array field; with any other value it is jsonb containment.
type JSONBPredicateCompiler struct{}

// Compile implements PredicateCompiler.
func (c JSONBPredicateCompiler) Compile(
	_ context.Context,
	where versionstore.Predicate,
	_ versionstore.RequestContext,
	_ bool,
) (exp.Expression, error) {

	return c.compile(where)
}

func (c JSONBPredicateCompiler) compile(p versionstore.Predicate) (exp.Expression, error) {
	switch p.Kind() {
	case versionstore.KindMatchAll:
		return nil, nil

	case versionstore.KindAnd, versionstore.KindOr:
		children := p.Children()
		expressions := make([]exp.Expression, 0, len(children))

		for _, child := range children {
			expression, err := c.compile(child)
			if err != nil {
				return nil, err
			}

			if expression == nil {
				if p.Kind() == versionstore.KindOr {
					return nil, nil // one unrestricted branch makes the whole OR unrestricted
				}

				continue
			}

			expressions = append(expressions, expression)
		}

		if len(expressions) == 0 {
			return nil, nil
		}

		if p.Kind() == versionstore.KindOr {
			return goqu.Or(expressions...), nil
		}

		return goqu.And(expressions...), nil

	case versionstore.KindCondition:
		return c.compileCondition(p.Path(), p.Operator(), p.Value())

	default:
		return nil, fmt.Errorf("%w: unsupported predicate kind %s", versionstore.ErrMalformedFilter, p.Kind())
	}
}

func (c JSONBPredicateCompiler) compileCondition(
	path versionstore.FieldPath,
	operator versionstore.Operator,
	value any,
) (exp.Expression, error) {

	if !operator.IsValid() {
		return nil, fmt.Errorf("%w: unknown operator %q on %q", versionstore.ErrMalformedFilter, operator, path.String())
	}

	if path.IsReserved() {
		return c.compileEnvelopeCondition(path.Root(), operator, value)
	}

	if path.Root() == versionstore.FieldVersion && len(path) > 1 {
		return c.compileVersionCondition(path.Tail(), operator, value)
	}

	return nil, fmt.Errorf("%w: %q", versionstore.ErrUnknownField, path.String())
}

func (c JSONBPredicateCompiler) compileEnvelopeCondition(
	field string,
	operator versionstore.Operator,
	value any,
) (exp.Expression, error) {

	column := envelopeColumn(field)

	switch operator {
	case versionstore.OpEquals:
		if value == nil {
			return column.IsNull(), nil
		}
		return column.Eq(value), nil
	case versionstore.OpNotEquals:
		if value == nil {
			return column.IsNotNull(), nil
		}
		return column.Neq(value), nil
	case versionstore.OpGreaterThan:
		return column.Gt(value), nil
	case versionstore.OpGreaterThanEqual:
		return column.Gte(value), nil
	case versionstore.OpLessThan:
		return column.Lt(value), nil
	case versionstore.OpLessThanEqual:
		return column.Lte(value), nil
	case versionstore.OpIn, versionstore.OpNotIn:
		values, err := listValue(operator, value)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return emptyListCondition(operator), nil
		}
		if operator == versionstore.OpIn {
			return column.In(values...), nil
		}
		return column.NotIn(values...), nil
	case versionstore.OpLike, versionstore.OpContains:
		pattern, err := likePattern(operator, value)
		if err != nil {
			return nil, err
		}
		return envelopeTextColumn(field).ILike(pattern), nil
	case versionstore.OpExists:
		return existsCondition(column, value)
	}

	return nil, fmt.Errorf("%w: unknown operator %q", versionstore.ErrMalformedFilter, operator)
}

func (c JSONBPredicateCompiler) compileVersionCondition(
	tail versionstore.FieldPath,
	operator versionstore.Operator,
	value any,
) (exp.Expression, error) {

	jsonField := jsonbPathExpression(tail)

	switch operator {
	case versionstore.OpEquals:
		if value == nil {
			return jsonField.IsNull(), nil
		}
		literal, err := jsonbLiteral(value)
		if err != nil {
			return nil, err
		}
		return jsonField.Eq(literal), nil

	case versionstore.OpNotEquals:
		if value == nil {
			return jsonField.IsNotNull(), nil
		}
		literal, err := jsonbLiteral(value)
		if err != nil {
			return nil, err
		}
		// a missing field is not equal to anything
		return goqu.Or(jsonField.IsNull(), jsonField.Neq(literal)), nil

	case versionstore.OpGreaterThan, versionstore.OpGreaterThanEqual,
		versionstore.OpLessThan, versionstore.OpLessThanEqual:
		literal, err := jsonbLiteral(value)
		if err != nil {
			return nil, err
		}
		// jsonb orders across types, so 3 < true; only values of the literal's type compare
		return goqu.And(
			goqu.L("jsonb_typeof(?) = jsonb_typeof(?)", jsonField, literal),
			compareOrdered(jsonField, operator, literal),
		), nil

	case versionstore.OpIn, versionstore.OpNotIn:
		values, err := listValue(operator, value)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return emptyListCondition(operator), nil
		}

		comparisons := make([]exp.Expression, 0, len(values))
		for _, v := range values {
			literal, literalErr := jsonbLiteral(v)
			if literalErr != nil {
				return nil, literalErr
			}

			if operator == versionstore.OpIn {
				comparisons = append(comparisons, jsonField.Eq(literal))
			} else {
				comparisons = append(comparisons, jsonField.Neq(literal))
			}
		}

		if operator == versionstore.OpIn {
			return goqu.Or(comparisons...), nil
		}
		return goqu.Or(jsonField.IsNull(), goqu.And(comparisons...)), nil

	case versionstore.OpLike:
		pattern, err := likePattern(operator, value)
		if err != nil {
			return nil, err
		}
		return jsonbTextPathExpression(tail).ILike(pattern), nil

	case versionstore.OpContains:
		if text, ok := value.(string); ok {
			return containsText(tail, text)
		}
		literal, err := jsonbLiteral(value)
		if err != nil {
			return nil, err
		}
		return goqu.L("? @> ?", jsonField, literal), nil

	case versionstore.OpExists:
		return existsCondition(jsonField, value)
	}

	return nil, fmt.Errorf("%w: unknown operator %q", versionstore.ErrMalformedFilter, operator)
}

// containsText matches a substring of a string field or an element of an array field.
func containsText(tail versionstore.FieldPath, text string) (exp.Expression, error) {
	jsonField := jsonbPathExpression(tail)

	pattern, err := likePattern(versionstore.OpContains, text)
	if err != nil {
		return nil, err
	}

	element, err := jsonbLiteral([]string{text})
	if err != nil {
		return nil, err
	}

	return goqu.Or(
		goqu.And(
			goqu.L("jsonb_typeof(?) = ?", jsonField, jsonbTypeString),
			jsonbTextPathExpression(tail).ILike(pattern),
		),
		goqu.And(
			goqu.L("jsonb_typeof(?) = ?", jsonField, jsonbTypeArray),
			goqu.L("? @> ?", jsonField, element),
		),
	), nil
}

type orderedComparable interface {
	Gt(any) exp.BooleanExpression
	Gte(any) exp.BooleanExpression
	Lt(any) exp.BooleanExpression
	Lte(any) exp.BooleanExpression
}

func compareOrdered(field orderedComparable, operator versionstore.Operator, value any) exp.Expression {
	switch operator {
	case versionstore.OpGreaterThan:
		return field.Gt(value)
	case versionstore.OpGreaterThanEqual:
		return field.Gte(value)
	case versionstore.OpLessThan:
		return field.Lt(value)
	default:
		return field.Lte(value)
	}
}

type nullCheckable interface {
	IsNull() exp.BooleanExpression
	IsNotNull() exp.BooleanExpression
}

func existsCondition(field nullCheckable, value any) (exp.Expression, error) {
	exists, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: exists expects a boolean, got %T", versionstore.ErrMalformedFilter, value)
	}

	if exists {
		return field.IsNotNull(), nil
	}

	return field.IsNull(), nil
}

func emptyListCondition(operator versionstore.Operator) exp.Expression {
	if operator == versionstore.OpIn {
		return goqu.L(sqlFalse)
	}

	return goqu.L(sqlTrue)
}

func listValue(operator versionstore.Operator, value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		values := make([]any, len(v))
		for i := range v {
			values[i] = v[i]
		}
		return values, nil
	case string:
		// comma separated lists are accepted like in query strings
		parts := strings.Split(v, ",")
		values := make([]any, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %s expects a list, got %T", versionstore.ErrMalformedFilter, operator, value)
	}
}

func likePattern(operator versionstore.Operator, value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s expects a string, got %T", versionstore.ErrMalformedFilter, operator, value)
	}

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)

	return "%" + escaped + "%", nil
}

// columnExpression is satisfied by both goqu identifiers and literals.
type columnExpression interface {
	exp.Expression
	orderedComparable
	nullCheckable
	Eq(any) exp.BooleanExpression
	Neq(any) exp.BooleanExpression
	In(...any) exp.BooleanExpression
	NotIn(...any) exp.BooleanExpression
	Asc() exp.OrderedExpression
	Desc() exp.OrderedExpression
}

// envelopeTextColumn is envelopeColumn as text, for pattern matching.
func envelopeTextColumn(field string) exp.LiteralExpression {
	if field == versionstore.FieldID {
		return goqu.L(castText, goqu.C(colID))
	}

	return goqu.L(castText, envelopeColumn(field))
}

// envelopeColumn maps an envelope field of the current document view to its column.
// The id is compared as text, so filtering by a malformed id matches nothing instead of failing.
func envelopeColumn(field string) columnExpression {
	switch field {
	case versionstore.FieldCreatedAt:
		return goqu.C(colCreatedAt)
	case versionstore.FieldUpdatedAt:
		return goqu.C(colUpdatedAt)
	default:
		return goqu.L(castText, goqu.C(colID))
	}
}

// jsonbPathExpression addresses a nested payload field as jsonb: "version" #> '{a,b}'::text[].
func jsonbPathExpression(tail versionstore.FieldPath) exp.LiteralExpression {
	return goqu.L("? #> ?::text[]", goqu.C(colVersion), textArrayLiteral(tail))
}

// jsonbTextPathExpression addresses a nested payload field as text: "version" #>> '{a,b}'::text[].
func jsonbTextPathExpression(tail versionstore.FieldPath) exp.LiteralExpression {
	return goqu.L("? #>> ?::text[]", goqu.C(colVersion), textArrayLiteral(tail))
}

// textArrayLiteral renders path segments as a Postgres text array literal like {"meta","title"}.
func textArrayLiteral(segments versionstore.FieldPath) string {
	quoted := make([]string, len(segments))
	escaper := strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	for i, segment := range segments {
		quoted[i] = `"` + escaper.Replace(segment) + `"`
	}

	return "{" + strings.Join(quoted, ",") + "}"
}

func jsonbLiteral(value any) (exp.LiteralExpression, error) {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: value is not JSON encodable: %w", versionstore.ErrMalformedFilter, err)
	}

	return goqu.L(castJsonb, string(encoded)), nil
}
