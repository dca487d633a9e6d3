// Package accesscontrol evaluates the access decision for a current-version query.
//
// The decision is a versionstore.AccessResult: allow all documents, deny all documents, or allow only
// documents matching an access predicate. It is evaluated before the query runs and handed to
// postgresengine.QueryArgs.Access.
package accesscontrol

import (
	"context"
	"errors"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	stringadapter "github.com/casbin/casbin/v3/persist/string-adapter"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

const (
	// ActionRead grants access to all documents of a collection.
	ActionRead = "read"
	// ActionReadOwn grants access to the documents whose owner field equals the actor.
	ActionReadOwn = "read_own"
	// AnyCollection matches every collection in a policy line.
	AnyCollection = "*"

	defaultOwnerField = "author"

	// modelText is an RBAC model: subjects are actors or roles, objects are collections.
	modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && r.act == p.act
`
)

var ErrLoadingPolicyFailed = errors.New("loading the access policy failed")
var ErrEvaluatingAccessFailed = errors.New("evaluating access failed")

// Evaluator decides which documents of a collection the actor of a request may read.
type Evaluator interface {
	Evaluate(ctx context.Context, req versionstore.RequestContext) (versionstore.AccessResult, error)
}

// CasbinEvaluator is an Evaluator backed by a casbin RBAC enforcer.
//
// Policies are CSV lines, e.g.:
//
//	p, editor, *, read
//	p, author, posts, read_own
//	g, alice, editor
//
// The actor and every role of the request are checked as subjects. read wins over read_own,
// no matching policy denies.
type CasbinEvaluator struct {
	enforcer   *casbin.Enforcer
	ownerField string
}

// Option configures a CasbinEvaluator.
type Option func(*CasbinEvaluator)

// WithOwnerField sets the document field compared with the actor for read_own, "author" by default.
// Nested fields use dot notation, e.g. "meta.owner".
func WithOwnerField(field string) Option {
	return func(e *CasbinEvaluator) {
		if field != "" {
			e.ownerField = field
		}
	}
}

// NewCasbinEvaluator creates an evaluator from policy CSV lines.
func NewCasbinEvaluator(policy string, options ...Option) (*CasbinEvaluator, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, errors.Join(ErrLoadingPolicyFailed, err)
	}

	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(normalizePolicy(policy)))
	if err != nil {
		return nil, errors.Join(ErrLoadingPolicyFailed, err)
	}

	return NewCasbinEvaluatorFromEnforcer(enforcer, options...), nil
}

// NewCasbinEvaluatorFromEnforcer wraps an enforcer configured elsewhere, e.g. with a database adapter.
// Its model must accept requests of the form (subject, collection, action).
func NewCasbinEvaluatorFromEnforcer(enforcer *casbin.Enforcer, options ...Option) *CasbinEvaluator {
	e := &CasbinEvaluator{enforcer: enforcer, ownerField: defaultOwnerField}

	for _, option := range options {
		option(e)
	}

	return e
}

// Evaluate implements Evaluator. A request without an actor and roles is denied.
func (e *CasbinEvaluator) Evaluate(_ context.Context, req versionstore.RequestContext) (versionstore.AccessResult, error) {
	subjects := make([]string, 0, len(req.Roles)+1)
	if req.Actor != "" {
		subjects = append(subjects, req.Actor)
	}
	subjects = append(subjects, req.Roles...)

	readAll, err := e.anyAllowed(subjects, req.Collection, ActionRead)
	if err != nil {
		return versionstore.DenyAll(), err
	}

	if readAll {
		return versionstore.AllowAll(), nil
	}

	// owning a document needs an actor to compare with
	if req.Actor == "" {
		return versionstore.DenyAll(), nil
	}

	readOwn, err := e.anyAllowed(subjects, req.Collection, ActionReadOwn)
	if err != nil {
		return versionstore.DenyAll(), err
	}

	if readOwn {
		return versionstore.Conditional(versionstore.Where(e.ownerField, versionstore.OpEquals, req.Actor)), nil
	}

	return versionstore.DenyAll(), nil
}

func (e *CasbinEvaluator) anyAllowed(subjects []string, collection string, action string) (bool, error) {
	for _, subject := range subjects {
		allowed, err := e.enforcer.Enforce(subject, collection, action)
		if err != nil {
			return false, errors.Join(ErrEvaluatingAccessFailed, err)
		}

		if allowed {
			return true, nil
		}
	}

	return false, nil
}

// normalizePolicy trims every policy line and drops blank ones, so policies can be indented.
func normalizePolicy(policy string) string {
	lines := strings.Split(policy, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// Resolve evaluates the access decision for a query. With overrideAccess the evaluator is skipped
// and all documents are allowed, as for trusted internal callers. A nil evaluator allows all documents.
func Resolve(
	ctx context.Context,
	evaluator Evaluator,
	req versionstore.RequestContext,
	overrideAccess bool,
) (versionstore.AccessResult, error) {

	if overrideAccess || evaluator == nil {
		return versionstore.AllowAll(), nil
	}

	return evaluator.Evaluate(ctx, req)
}

var _ Evaluator = (*CasbinEvaluator)(nil)
