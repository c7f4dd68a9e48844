// Package checker implements structural type inference and unification
// over the ast package.
//
// A Checker is a checking session. It owns the bounds of every scope frame
// created through it, so scopes must only be used with the Checker that
// created them. Bounds records live for the duration of the InferType or
// Unify call that created them; frames created directly or by CheckModule
// live as long as the Checker. A Checker is not safe for concurrent use;
// independent roots may be checked concurrently with one Checker each.
package checker

import (
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/errors"
)

// Checker infers and checks types.
type Checker struct {
	cfg    config
	id     uuid.UUID
	log    zerolog.Logger
	arena  arena
	depth  int
	active map[activeKey]bool
}

// New returns a Checker configured with the given options.
func New(opts ...Option) *Checker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}
	return &Checker{
		cfg:    cfg,
		id:     id,
		log:    cfg.logger.With().Str("session", id.String()).Logger(),
		active: map[activeKey]bool{},
	}
}

// ID returns the session id attached to every log event of this Checker.
func (c *Checker) ID() string {
	return c.id.String()
}

// InferType infers the type of expr in scope. Frames created while
// inferring are freed when it returns.
func (c *Checker) InferType(expr ast.Expr, scope *Scope) (ast.Type, error) {
	defer c.arena.truncate(c.arena.size())
	return c.infer(expr, c.scopeOrEmpty(scope))
}

// Unify checks that inferred is assignable to expected, narrowing the
// bounds of any type identifier met on either side. Frames created while
// unifying are freed when it returns.
func (c *Checker) Unify(expected, inferred ast.Type, scope *Scope) error {
	defer c.arena.truncate(c.arena.size())
	return c.unify(expected, inferred, c.scopeOrEmpty(scope))
}

func (c *Checker) scopeOrEmpty(scope *Scope) *Scope {
	if scope == nil {
		return EmptyScope()
	}
	return scope
}

// enter records one more level of nesting. Callers must defer leave
// before checking the result.
func (c *Checker) enter() error {
	c.depth++
	if c.depth > c.cfg.maxDepth {
		return errors.DepthExceeded(c.cfg.maxDepth)
	}
	return nil
}

func (c *Checker) leave() {
	c.depth--
}

// attribute names expr as the location of err unless a nested expression
// was already named.
func attribute(err error, expr ast.Expr) error {
	if ce, ok := err.(*errors.CheckError); ok {
		return ce.WithExpr(expr)
	}
	return err
}
